package wizard

// StepID идентификатор шага мастера бронирования
type StepID string

const (
	StepService  StepID = "service"
	StepDateTime StepID = "datetime"
	StepStaff    StepID = "staff"
	StepAddOns   StepID = "addons"
	StepRequests StepID = "requests"
	StepInfo     StepID = "info"
	StepPayment  StepID = "payment"
	StepReview   StepID = "review"
)

// Step шаг мастера. Completed и Current вычисляются по текущему индексу
type Step struct {
	ID          StepID
	Title       string
	Description string
	Completed   bool
	Current     bool
}

type stepDefinition struct {
	id          StepID
	title       string
	description string
}

var stepDefinitions = []stepDefinition{
	{StepService, "Select Service", "Choose the service you want to book"},
	{StepDateTime, "Date & Time", "Pick a date and an available time slot"},
	{StepStaff, "Staff", "Choose a staff member or let the provider decide"},
	{StepAddOns, "Add-ons", "Enhance your booking with extras"},
	{StepRequests, "Special Requests", "Anything the provider should know"},
	{StepInfo, "Your Information", "Contact details for the booking"},
	{StepPayment, "Payment", "Choose how you will pay"},
	{StepReview, "Review", "Check the details and confirm"},
}

// LastStepIndex индекс шага подтверждения
var LastStepIndex = len(stepDefinitions) - 1

// StepIndex возвращает позицию шага или -1
func StepIndex(id StepID) int {
	for i, def := range stepDefinitions {
		if def.id == id {
			return i
		}
	}
	return -1
}
