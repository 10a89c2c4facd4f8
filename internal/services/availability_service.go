package services

import (
	"fmt"
	"time"

	"github.com/courtbase/field-booking-backend/internal/database"
	"github.com/courtbase/field-booking-backend/internal/models"
	"github.com/courtbase/field-booking-backend/pkg/timeslot"
	"github.com/sirupsen/logrus"
)

// AvailabilityService answers day-schedule queries for fields
type AvailabilityService struct {
	fieldRepo   *database.FieldRepository
	bookingRepo *database.BookingRepository
	logger      *logrus.Logger
}

// NewAvailabilityService creates a new AvailabilityService
func NewAvailabilityService(fieldRepo *database.FieldRepository, bookingRepo *database.BookingRepository, logger *logrus.Logger) *AvailabilityService {
	return &AvailabilityService{
		fieldRepo:   fieldRepo,
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// DayScheduleFor returns the occupied and free intervals of a field on one
// date. Canceled bookings do not occupy time. Free gaps are computed against
// the full 00:00-24:00 day window.
func (s *AvailabilityService) DayScheduleFor(companyID, fieldID string, date time.Time) (*models.DaySchedule, error) {
	field, err := s.fieldRepo.GetByID(fieldID)
	if err != nil {
		return nil, err
	}
	if field.CompanyID != companyID {
		return nil, fmt.Errorf("field does not belong to company")
	}

	bookings, err := s.bookingRepo.ListForDate(fieldID, date)
	if err != nil {
		return nil, err
	}

	schedule := &models.DaySchedule{
		FieldID:  fieldID,
		Date:     date.Format("2006-01-02"),
		Occupied: []models.ScheduleSlot{},
		Free:     []models.ScheduleSlot{},
	}

	busy := make([]timeslot.Interval, 0, len(bookings))
	for _, b := range bookings {
		iv, err := timeslot.FromClocks(b.StartTime, b.EndTime)
		if err != nil {
			s.logger.WithFields(logrus.Fields{
				"booking_id": b.ID,
				"start_time": b.StartTime,
				"end_time":   b.EndTime,
			}).Warn("Skipping booking with unparseable time window")
			continue
		}
		busy = append(busy, iv)
		schedule.Occupied = append(schedule.Occupied, models.ScheduleSlot{
			StartTime:     iv.StartClock(),
			EndTime:       iv.EndClock(),
			BookingNumber: b.BookingNumber,
			Status:        string(b.Status),
		})
	}

	day := timeslot.Interval{Start: 0, End: timeslot.MinutesPerDay}
	for _, gap := range timeslot.FreeWithin(day, busy) {
		schedule.Free = append(schedule.Free, models.ScheduleSlot{
			StartTime: gap.StartClock(),
			EndTime:   gap.EndClock(),
		})
	}

	return schedule, nil
}
