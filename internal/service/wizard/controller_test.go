package wizard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
	"github.com/m04kA/SMC-MarketplaceService/internal/service/pricing"
	"github.com/m04kA/SMC-MarketplaceService/pkg/ptr"
)

var (
	testDay = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	washService = &domain.Service{
		ID: 1, ProviderID: 1, Name: "Full Detail Wash", Price: 75, DurationMinutes: 90, IsActive: true,
		AddOns: []domain.AddOn{
			{ID: 1, ServiceID: 1, Name: "Tire Shine", Price: 25},
			{ID: 2, ServiceID: 1, Name: "Engine Bay Cleaning", Price: 40},
		},
	}
	ceramicService  = &domain.Service{ID: 2, ProviderID: 1, Name: "Ceramic Coating", Price: 300, IsActive: true}
	trainingService = &domain.Service{ID: 3, ProviderID: 2, Name: "Personal Training", Price: 50, IsActive: true}

	sharedSlot = &domain.TimeSlot{ID: 10, ProviderID: 1, Date: testDay, StartTime: "10:00", DurationMinutes: 60, Capacity: 1}
	washSlot   = &domain.TimeSlot{ID: 11, ProviderID: 1, ServiceID: ptr.Ptr(int64(1)), Date: testDay, StartTime: "11:00", DurationMinutes: 60, Capacity: 1}
	staffAlex  = &domain.StaffMember{ID: 1, ProviderID: 1, Name: "Alex", Role: "Detailer", IsActive: true}
)

func newTestController() *Controller {
	session := &domain.WizardSession{ID: "s1", UserID: 7, Status: domain.WizardInProgress}
	return NewController(session, pricing.NewCalculator(nil, nil, nil))
}

// fillUntilReview проходит все шаги с валидными данными
func fillUntilReview(t *testing.T, c *Controller) {
	t.Helper()
	require.NoError(t, c.Apply(ServiceSelection{Service: washService}))
	require.NoError(t, c.Next())
	require.NoError(t, c.Apply(DateTimeSelection{Date: testDay, Slot: sharedSlot}))
	require.NoError(t, c.Next())
	require.NoError(t, c.Next()) // staff
	require.NoError(t, c.Apply(AddOnSelection{AddOns: washService.AddOns[:1]}))
	require.NoError(t, c.Next())
	require.NoError(t, c.Next()) // requests
	require.NoError(t, c.Apply(CustomerInfoInput{Info: domain.CustomerInfo{Name: "Jane", Email: "jane@example.com", Phone: "+100"}}))
	require.NoError(t, c.Next())
	require.NoError(t, c.Apply(PaymentSelection{Method: domain.PaymentCard}))
	require.NoError(t, c.Apply(PromoCodeInput{Code: "SAVE10"}))
	require.NoError(t, c.Next())
	require.Equal(t, StepReview, c.Current().ID)
}

func TestController_NextRequiresCompleteStep(t *testing.T) {
	c := newTestController()

	assert.False(t, c.CanAdvance())
	err := c.Next()
	require.ErrorIs(t, err, ErrStepIncomplete)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, StepService, vErr.Step)
	assert.Equal(t, []string{"service"}, vErr.Fields)
	assert.Equal(t, 0, c.State().StepIndex)

	require.NoError(t, c.Apply(ServiceSelection{Service: washService}))
	assert.True(t, c.CanAdvance())
	require.NoError(t, c.Next())
	assert.Equal(t, StepDateTime, c.Current().ID)

	// Дата без слота не позволяет перейти дальше
	err = c.Next()
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, []string{"date", "timeSlot"}, vErr.Fields)
	assert.Equal(t, 1, c.State().StepIndex)
}

func TestController_InfoStepRequiresValidEmail(t *testing.T) {
	c := newTestController()
	require.NoError(t, c.Apply(ServiceSelection{Service: washService}))
	require.NoError(t, c.Next())
	require.NoError(t, c.Apply(DateTimeSelection{Date: testDay, Slot: sharedSlot}))
	for i := 0; i < 4; i++ {
		require.NoError(t, c.Next())
	}
	require.Equal(t, StepInfo, c.Current().ID)

	require.NoError(t, c.Apply(CustomerInfoInput{Info: domain.CustomerInfo{Name: "Jane", Email: "not-an-email", Phone: " "}}))

	var vErr *ValidationError
	require.ErrorAs(t, c.Next(), &vErr)
	assert.Equal(t, []string{"email", "phone"}, vErr.Fields)
	assert.Equal(t, StepInfo, c.Current().ID)
}

func TestController_PreviousAndNextAreClamped(t *testing.T) {
	c := newTestController()

	require.NoError(t, c.Previous())
	assert.Equal(t, 0, c.State().StepIndex)

	fillUntilReview(t, c)
	require.NoError(t, c.Next())
	assert.Equal(t, LastStepIndex, c.State().StepIndex)

	for i := 0; i < 20; i++ {
		require.NoError(t, c.Previous())
	}
	assert.Equal(t, 0, c.State().StepIndex)
}

func TestController_GoTo(t *testing.T) {
	c := newTestController()
	require.NoError(t, c.Apply(ServiceSelection{Service: washService}))
	require.NoError(t, c.Next())
	require.NoError(t, c.Apply(DateTimeSelection{Date: testDay, Slot: sharedSlot}))
	require.NoError(t, c.Next())
	require.NoError(t, c.Next())
	require.Equal(t, 3, c.State().StepIndex)

	assert.ErrorIs(t, c.GoTo(4), ErrForwardJump)
	assert.ErrorIs(t, c.GoTo(-1), ErrInvalidStep)
	assert.ErrorIs(t, c.GoTo(LastStepIndex+1), ErrInvalidStep)

	require.NoError(t, c.GoTo(3))
	require.NoError(t, c.GoTo(1))
	assert.Equal(t, StepDateTime, c.Current().ID)

	steps := c.Steps()
	assert.True(t, steps[0].Completed)
	assert.True(t, steps[1].Current)
	assert.False(t, steps[1].Completed)
	assert.False(t, steps[2].Completed)
}

func TestController_ApplyForwardStepIsRejected(t *testing.T) {
	c := newTestController()
	err := c.Apply(PaymentSelection{Method: domain.PaymentCash})
	assert.ErrorIs(t, err, ErrForwardJump)
}

func TestController_TotalsRecomputedOnEveryChange(t *testing.T) {
	c := newTestController()
	fillUntilReview(t, c)

	d := c.State().Draft
	assert.Equal(t, 100.0, d.Subtotal)
	assert.Equal(t, 10.0, d.Discount)
	assert.Equal(t, 90.0, d.Total)

	require.NoError(t, c.Apply(PromoCodeInput{Code: ""}))
	d = c.State().Draft
	assert.Equal(t, 0.0, d.Discount)
	assert.Equal(t, 100.0, d.Total)
}

func TestController_ChangingServiceClearsSelections(t *testing.T) {
	c := newTestController()
	require.NoError(t, c.Apply(ServiceSelection{Service: washService}))
	require.NoError(t, c.Next())
	require.NoError(t, c.Apply(DateTimeSelection{Date: testDay, Slot: washSlot}))
	require.NoError(t, c.Next())
	require.NoError(t, c.Apply(StaffSelection{Staff: staffAlex}))
	require.NoError(t, c.Next())
	require.NoError(t, c.Apply(AddOnSelection{AddOns: washService.AddOns}))
	require.Equal(t, 3, c.State().StepIndex)

	// Та же компания, но слот привязан к другой услуге
	require.NoError(t, c.Apply(ServiceSelection{Service: ceramicService}))

	d := c.State().Draft
	assert.Nil(t, d.TimeSlot)
	assert.Nil(t, d.Date)
	assert.NotNil(t, d.StaffMember)
	assert.Empty(t, d.SelectedAddOns)
	assert.Equal(t, 300.0, d.Total)
	// Шаг даты стал незаполненным, индекс возвращается на него
	assert.Equal(t, StepDateTime, c.Current().ID)

	require.NoError(t, c.Apply(ServiceSelection{Service: trainingService}))
	assert.Nil(t, c.State().Draft.StaffMember)
}

func TestController_RejectsForeignReferences(t *testing.T) {
	c := newTestController()
	require.NoError(t, c.Apply(ServiceSelection{Service: trainingService}))
	require.NoError(t, c.Next())

	assert.ErrorIs(t, c.Apply(DateTimeSelection{Date: testDay, Slot: sharedSlot}), ErrInvalidInput)
	assert.ErrorIs(t, c.Apply(DateTimeSelection{Date: testDay.AddDate(0, 0, 1), Slot: &domain.TimeSlot{ID: 5, ProviderID: 2, Date: testDay}}), ErrInvalidInput)
}

func TestController_SubmitLifecycle(t *testing.T) {
	c := newTestController()

	fillUntilReview(t, c)
	require.NoError(t, c.BeginSubmit())
	assert.Equal(t, domain.WizardSubmitting, c.State().Status)
	assert.ErrorIs(t, c.Next(), ErrSubmitInProgress)

	c.MarkFailed("time slot is fully booked")
	assert.Equal(t, domain.WizardInProgress, c.State().Status)
	assert.Equal(t, StepReview, c.Current().ID)
	assert.Equal(t, "time slot is fully booked", c.State().LastError)

	// Повтор разрешен
	require.NoError(t, c.BeginSubmit())
	c.MarkSubmitted(42, "BK-1")

	assert.Equal(t, domain.WizardSubmitted, c.State().Status)
	assert.Equal(t, int64(42), c.State().BookingID)
	assert.ErrorIs(t, c.Previous(), ErrAlreadySubmitted)
	assert.ErrorIs(t, c.GoTo(0), ErrAlreadySubmitted)
	assert.ErrorIs(t, c.Apply(PromoCodeInput{Code: "X"}), ErrAlreadySubmitted)
	assert.ErrorIs(t, c.BeginSubmit(), ErrAlreadySubmitted)
	for _, step := range c.Steps() {
		assert.True(t, step.Completed)
		assert.False(t, step.Current)
	}
}

func TestController_BeginSubmitOnlyFromReview(t *testing.T) {
	c := newTestController()
	assert.ErrorIs(t, c.BeginSubmit(), ErrNotOnReview)
}
