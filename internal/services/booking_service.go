package services

import (
	"fmt"
	"time"

	"github.com/courtbase/field-booking-backend/internal/database"
	"github.com/courtbase/field-booking-backend/internal/models"
	"github.com/courtbase/field-booking-backend/pkg/timeslot"
	"github.com/courtbase/field-booking-backend/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const bookingDateLayout = "2006-01-02"

// BookingService orchestrates the booking lifecycle: eligibility checks,
// pricing, conflict-safe persistence and fee accrual
type BookingService struct {
	bookingRepo    *database.BookingRepository
	fieldRepo      *database.FieldRepository
	companyRepo    *database.CompanyRepository
	couponRepo     *database.CouponRepository
	pricing        *PricingService
	phoneValidator *validator.PhoneValidator
	feePercentage  decimal.Decimal
	logger         *logrus.Logger
}

// NewBookingService creates a new BookingService
func NewBookingService(
	bookingRepo *database.BookingRepository,
	fieldRepo *database.FieldRepository,
	companyRepo *database.CompanyRepository,
	couponRepo *database.CouponRepository,
	pricing *PricingService,
	feePercentage decimal.Decimal,
	logger *logrus.Logger,
) *BookingService {
	return &BookingService{
		bookingRepo:    bookingRepo,
		fieldRepo:      fieldRepo,
		companyRepo:    companyRepo,
		couponRepo:     couponRepo,
		pricing:        pricing,
		phoneValidator: validator.NewPhoneValidator(),
		feePercentage:  feePercentage,
		logger:         logger,
	}
}

// Create validates, prices and persists a new booking along with its
// fee-accrual transfer. The conflict check runs inside the repository
// transaction under the field lock.
func (s *BookingService) Create(companyID string, req *models.CreateBookingRequest) (*models.Booking, error) {
	company, err := s.requireOperatingCompany(companyID)
	if err != nil {
		return nil, err
	}

	field, err := s.requireActiveField(companyID, req.FieldID)
	if err != nil {
		return nil, err
	}

	bookingDate, err := time.Parse(bookingDateLayout, req.BookingDate)
	if err != nil {
		return nil, fmt.Errorf("invalid booking_date: expected YYYY-MM-DD")
	}

	breakdown, err := s.pricing.Calculate(field, req.StartTime, req.EndTime, req.IncludeExtraHour)
	if err != nil {
		return nil, err
	}

	// The coupon discounts the base rental only, never the extra-hour charge,
	// so it is bounded by the base price.
	discount := decimal.Zero
	if req.CouponID != nil && *req.CouponID != "" {
		discount, err = s.resolveCouponDiscount(companyID, *req.CouponID, breakdown.BasePrice)
		if err != nil {
			return nil, err
		}
	}
	totalAmount := breakdown.TotalPrice.Sub(discount)

	status := models.BookingStatusPending
	if req.InitialStatus != nil {
		status = models.BookingStatus(*req.InitialStatus)
		if status != models.BookingStatusPending && status != models.BookingStatusConfirmed {
			return nil, fmt.Errorf("initial status must be pending or confirmed")
		}
	}

	userID, err := s.resolveRenter(req.UserID, req.UserPhone)
	if err != nil {
		return nil, err
	}

	if err := s.requirePaymentForm(companyID, req.PaymentFormID); err != nil {
		return nil, err
	}

	bookingNumber, err := s.bookingRepo.GenerateBookingNumber()
	if err != nil {
		return nil, err
	}

	booking := &models.Booking{
		FieldID:         field.ID,
		UserID:          userID,
		BookingNumber:   bookingNumber,
		BookingDate:     bookingDate,
		StartTime:       req.StartTime,
		EndTime:         breakdown.EndTime,
		DurationMinutes: breakdown.DurationMinutes,
		BasePrice:       breakdown.BasePrice,
		ExtraHourPrice:  breakdown.ExtraHourPrice,
		HasExtraHour:    breakdown.HasExtraHour,
		DiscountAmount:  discount,
		TotalAmount:     totalAmount,
		CouponID:        req.CouponID,
		PaymentFormID:   req.PaymentFormID,
		PaymentType:     models.PaymentType(req.PaymentType),
		Status:          status,
		Notes:           req.Notes,
	}

	transfer := &models.CompanyTransfer{
		CompanyID: companyID,
		Amount:    s.feeFor(totalAmount),
		IsFree:    company.TransferFree,
	}

	if err := s.bookingRepo.CreateWithTransfer(booking, transfer); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id":     booking.ID,
		"booking_number": booking.BookingNumber,
		"field_id":       booking.FieldID,
		"company_id":     companyID,
		"total_amount":   booking.TotalAmount.String(),
		"status":         booking.Status,
	}).Info("Booking created")

	return booking, nil
}

// Update applies a partial update to a booking, re-pricing and re-checking
// conflicts when the occupied window changes. Completed bookings are immutable.
func (s *BookingService) Update(companyID, bookingID string, req *models.UpdateBookingRequest) (*models.Booking, error) {
	if _, err := s.requireOperatingCompany(companyID); err != nil {
		return nil, err
	}

	booking, err := s.getOwnedBooking(companyID, bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.IsMutable() {
		return nil, &models.ImmutableBookingError{BookingID: booking.ID}
	}

	fieldID := booking.FieldID
	if req.FieldID != nil {
		fieldID = *req.FieldID
	}
	field, err := s.requireActiveField(companyID, fieldID)
	if err != nil {
		return nil, err
	}

	bookingDate := booking.BookingDate
	if req.BookingDate != nil {
		bookingDate, err = time.Parse(bookingDateLayout, *req.BookingDate)
		if err != nil {
			return nil, fmt.Errorf("invalid booking_date: expected YYYY-MM-DD")
		}
	}

	// The stored end time already covers the extra-hour extension. Strip it
	// back to the requested window before re-pricing so the extension is not
	// applied twice.
	hadExtraHour := booking.HasExtraHour
	rawStart := booking.StartTime
	rawEnd := booking.EndTime
	if hadExtraHour {
		iv, err := timeslot.FromClocks(booking.StartTime, booking.EndTime)
		if err != nil {
			return nil, fmt.Errorf("stored booking window is invalid: %w", err)
		}
		rawEnd = timeslot.Clock(iv.End - extraHourMinutes)
	}
	if req.StartTime != nil {
		rawStart = *req.StartTime
	}
	if req.EndTime != nil {
		rawEnd = *req.EndTime
	}

	includeExtraHour := hadExtraHour
	if req.IncludeExtraHour != nil {
		includeExtraHour = *req.IncludeExtraHour
	}

	breakdown, err := s.pricing.Calculate(field, rawStart, rawEnd, includeExtraHour)
	if err != nil {
		return nil, err
	}

	couponID := booking.CouponID
	if req.CouponID != nil {
		if *req.CouponID == "" {
			couponID = nil
		} else {
			couponID = req.CouponID
		}
	}
	discount := decimal.Zero
	if couponID != nil {
		discount, err = s.resolveCouponDiscount(companyID, *couponID, breakdown.BasePrice)
		if err != nil {
			return nil, err
		}
	}
	totalAmount := breakdown.TotalPrice.Sub(discount)

	windowChanged := fieldID != booking.FieldID ||
		!bookingDate.Equal(booking.BookingDate) ||
		!sameClock(rawStart, booking.StartTime) ||
		!sameClock(breakdown.EndTime, booking.EndTime)

	if req.PaymentFormID != nil {
		if err := s.requirePaymentForm(companyID, *req.PaymentFormID); err != nil {
			return nil, err
		}
		booking.PaymentFormID = *req.PaymentFormID
	}
	if req.PaymentType != nil {
		pt := models.PaymentType(*req.PaymentType)
		if pt != models.PaymentTypeOnline && pt != models.PaymentTypeInPerson {
			return nil, fmt.Errorf("payment_type must be online or in_person")
		}
		booking.PaymentType = pt
	}
	if req.Notes != nil {
		booking.Notes = req.Notes
	}

	booking.FieldID = fieldID
	booking.BookingDate = bookingDate
	booking.StartTime = rawStart
	booking.EndTime = breakdown.EndTime
	booking.DurationMinutes = breakdown.DurationMinutes
	booking.BasePrice = breakdown.BasePrice
	booking.ExtraHourPrice = breakdown.ExtraHourPrice
	booking.HasExtraHour = breakdown.HasExtraHour
	booking.DiscountAmount = discount
	booking.TotalAmount = totalAmount
	booking.CouponID = couponID

	if err := s.bookingRepo.UpdateWithTransfer(booking, s.feeFor(totalAmount), windowChanged); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id":     booking.ID,
		"booking_number": booking.BookingNumber,
		"window_changed": windowChanged,
		"total_amount":   booking.TotalAmount.String(),
	}).Info("Booking updated")

	return booking, nil
}

// ChangeStatus moves a booking through its lifecycle. Cancellation requires a
// reason and removes the fee-accrual transfer.
func (s *BookingService) ChangeStatus(companyID, bookingID string, req *models.ChangeStatusRequest) (*models.Booking, error) {
	if _, err := s.requireOperatingCompany(companyID); err != nil {
		return nil, err
	}

	booking, err := s.getOwnedBooking(companyID, bookingID)
	if err != nil {
		return nil, err
	}

	next := models.BookingStatus(req.Status)
	if !models.ValidBookingStatus(next) {
		return nil, fmt.Errorf("unknown booking status: %s", req.Status)
	}

	previous := booking.Status
	if err := booking.Transition(next, req.Reason); err != nil {
		return nil, err
	}

	if err := s.bookingRepo.UpdateStatus(booking); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id":     booking.ID,
		"booking_number": booking.BookingNumber,
		"from":           previous,
		"to":             booking.Status,
	}).Info("Booking status changed")

	return booking, nil
}

// QuoteInput carries the parameters of a price preview
type QuoteInput struct {
	FieldID          string
	StartTime        string
	EndTime          string
	IncludeExtraHour bool
	CouponID         *string
}

// Quote is the price preview a booking create would produce. Returns the
// breakdown with the coupon discount already subtracted from TotalPrice.
// Nothing is persisted and no slot is held.
func (s *BookingService) Quote(companyID string, input *QuoteInput) (*models.PriceBreakdown, error) {
	field, err := s.requireActiveField(companyID, input.FieldID)
	if err != nil {
		return nil, err
	}

	breakdown, err := s.pricing.Calculate(field, input.StartTime, input.EndTime, input.IncludeExtraHour)
	if err != nil {
		return nil, err
	}

	if input.CouponID != nil && *input.CouponID != "" {
		discount, err := s.resolveCouponDiscount(companyID, *input.CouponID, breakdown.BasePrice)
		if err != nil {
			return nil, err
		}
		breakdown.TotalPrice = breakdown.TotalPrice.Sub(discount)
	}

	return breakdown, nil
}

// GetByID fetches a booking owned by the company
func (s *BookingService) GetByID(companyID, bookingID string) (*models.Booking, error) {
	return s.getOwnedBooking(companyID, bookingID)
}

// ListForDate lists a field's non-canceled bookings on one date
func (s *BookingService) ListForDate(companyID, fieldID string, date time.Time) ([]models.Booking, error) {
	if _, err := s.requireActiveOrInactiveField(companyID, fieldID); err != nil {
		return nil, err
	}
	return s.bookingRepo.ListForDate(fieldID, date)
}

func (s *BookingService) requireOperatingCompany(companyID string) (*models.Company, error) {
	company, err := s.companyRepo.GetByID(companyID)
	if err != nil {
		return nil, err
	}
	if !company.CanOperate() {
		return nil, &models.CompanyNotEligibleError{CompanyID: company.ID, Status: company.Status}
	}
	return company, nil
}

func (s *BookingService) requireActiveField(companyID, fieldID string) (*models.Field, error) {
	field, err := s.requireActiveOrInactiveField(companyID, fieldID)
	if err != nil {
		return nil, err
	}
	if !field.IsActive {
		return nil, fmt.Errorf("field %s is inactive", field.ID)
	}
	return field, nil
}

func (s *BookingService) requireActiveOrInactiveField(companyID, fieldID string) (*models.Field, error) {
	field, err := s.fieldRepo.GetByID(fieldID)
	if err != nil {
		return nil, err
	}
	if field.CompanyID != companyID {
		return nil, fmt.Errorf("field does not belong to company")
	}
	return field, nil
}

func (s *BookingService) requirePaymentForm(companyID, paymentFormID string) error {
	form, err := s.companyRepo.GetPaymentForm(paymentFormID)
	if err != nil {
		return err
	}
	if form.CompanyID != companyID {
		return fmt.Errorf("payment form does not belong to company")
	}
	if !form.IsActive {
		return fmt.Errorf("payment form %s is inactive", form.ID)
	}
	return nil
}

// resolveCouponDiscount loads the coupon, verifies tenant ownership and
// returns the bounded discount it yields on the given price
func (s *BookingService) resolveCouponDiscount(companyID, couponID string, price decimal.Decimal) (decimal.Decimal, error) {
	coupon, err := s.couponRepo.GetByID(couponID)
	if err != nil {
		return decimal.Zero, err
	}
	if coupon == nil {
		return decimal.Zero, &models.InvalidCouponError{CouponID: couponID, Reason: "coupon not found"}
	}
	if coupon.CompanyID != companyID {
		return decimal.Zero, &models.InvalidCouponError{CouponID: couponID, Reason: "coupon belongs to another company"}
	}

	discount, _, err := s.pricing.ApplyCoupon(coupon, price)
	if err != nil {
		return decimal.Zero, err
	}
	return discount, nil
}

// resolveRenter returns the renter's user id. A phone number without a
// matching user creates one on the fly. Walk-in bookings carry no renter.
func (s *BookingService) resolveRenter(userID, userPhone *string) (*string, error) {
	if userID != nil && *userID != "" {
		user, err := s.companyRepo.GetUserByID(*userID)
		if err != nil {
			return nil, err
		}
		return &user.ID, nil
	}

	if userPhone != nil && *userPhone != "" {
		phone, err := s.phoneValidator.Validate(*userPhone)
		if err != nil {
			return nil, fmt.Errorf("invalid user_phone: %w", err)
		}

		user, err := s.companyRepo.GetUserByPhone(phone)
		if err != nil {
			return nil, err
		}
		if user == nil {
			user, err = s.companyRepo.CreateUserFromPhone(phone)
			if err != nil {
				return nil, err
			}
		}
		return &user.ID, nil
	}

	return nil, nil
}

// feeFor computes the platform fee accrued on a booking amount
// sameClock compares two clock strings by their minute value, so a stored
// "10:00:00" matches a requested "10:00". Unparseable values fall back to a
// plain string comparison.
func sameClock(a, b string) bool {
	am, errA := timeslot.ParseClock(a)
	bm, errB := timeslot.ParseClock(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return am == bm
}

func (s *BookingService) feeFor(totalAmount decimal.Decimal) decimal.Decimal {
	return totalAmount.Mul(s.feePercentage).Div(decimal.NewFromInt(100)).Round(2)
}

func (s *BookingService) getOwnedBooking(companyID, bookingID string) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if _, err := s.requireActiveOrInactiveField(companyID, booking.FieldID); err != nil {
		return nil, fmt.Errorf("booking not found")
	}
	return booking, nil
}
