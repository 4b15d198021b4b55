package models

import "time"

// Records synced from the mobile app. Ids are client-generated 24-hex
// strings so the app can create records while offline.

type Schedule struct {
	ID           string  `gorm:"primaryKey;size:24" json:"id"`
	ClientID     *string `gorm:"size:24" json:"clientId,omitempty"`
	TechnicianID string  `json:"technicianId"`
	Date         string  `gorm:"size:10" json:"date"`
	StartTime    string  `gorm:"size:5" json:"startTime"`
	EndTime      string  `gorm:"size:5" json:"endTime"`
	Status       string  `json:"status"`
	JobType      *string `json:"jobType,omitempty"`
	Address      *string `json:"address,omitempty"`
	Notes        *string `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

func (Schedule) TableName() string { return "schedules" }

type Invoice struct {
	ID          string   `gorm:"primaryKey;size:24" json:"id"`
	ClientID    string   `gorm:"size:24" json:"clientId"`
	ScheduleID  *string  `gorm:"size:24" json:"scheduleId,omitempty"`
	InvoiceNo   *string  `json:"invoiceNo,omitempty"`
	AmountDue   float64  `json:"amountDue"`
	Status      string   `json:"status"`
	IssueDate   *string  `gorm:"size:10" json:"issueDate,omitempty"`
	DueDate     *string  `gorm:"size:10" json:"dueDate,omitempty"`
	PaymentLink *string  `json:"paymentLink,omitempty"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

func (Invoice) TableName() string { return "invoices" }

type Photo struct {
	ID            string  `gorm:"primaryKey;size:24" json:"id"`
	ScheduleID    string  `gorm:"size:24;index" json:"scheduleId"`
	TechnicianID  string  `json:"technicianId"`
	Type          string  `json:"type"`
	SignerName    *string `json:"signerName,omitempty"`
	CloudinaryURL *string `gorm:"column:cloudinary_url" json:"cloudinaryUrl,omitempty"`
	Caption       *string `json:"caption,omitempty"`
	TakenAt       *string `json:"takenAt,omitempty"`
	CreatedAt     time.Time `json:"-"`
	UpdatedAt     time.Time `json:"-"`
}

func (Photo) TableName() string { return "photos" }

type Availability struct {
	ID           string  `gorm:"primaryKey;size:24" json:"id"`
	TechnicianID string  `json:"technicianId"`
	// DayOfWeek is set for recurring entries, SpecificDate for one-off ones.
	DayOfWeek    *int    `json:"dayOfWeek,omitempty"`
	SpecificDate *string `gorm:"size:10" json:"specificDate,omitempty"`
	StartTime    *string `gorm:"size:5" json:"startTime,omitempty"`
	EndTime      *string `gorm:"size:5" json:"endTime,omitempty"`
	IsFullDay    bool    `json:"isFullDay"`
	IsRecurring  bool    `json:"isRecurring"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

func (Availability) TableName() string { return "availabilities" }

type TimeOffRequest struct {
	ID           string  `gorm:"primaryKey;size:24" json:"id"`
	TechnicianID string  `json:"technicianId"`
	StartDate    string  `gorm:"size:10" json:"startDate"`
	EndDate      string  `gorm:"size:10" json:"endDate"`
	Reason       *string `json:"reason,omitempty"`
	Status       string  `json:"status"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

func (TimeOffRequest) TableName() string { return "timeoffrequests" }

type PayrollPeriod struct {
	ID         string `gorm:"primaryKey;size:24" json:"id"`
	StartDate  string `gorm:"size:10" json:"startDate"`
	EndDate    string `gorm:"size:10" json:"endDate"`
	PayDate    string `gorm:"size:10" json:"payDate"`
	CutoffDate string `gorm:"size:10" json:"cutoffDate"`
	CreatedAt  time.Time `json:"-"`
	UpdatedAt  time.Time `json:"-"`
}

func (PayrollPeriod) TableName() string { return "payrollperiods" }

type Report struct {
	ID            string   `gorm:"primaryKey;size:24" json:"id"`
	ScheduleID    string   `gorm:"size:24;index" json:"scheduleId"`
	InvoiceID     string   `gorm:"size:24;index" json:"invoiceId"`
	TechnicianID  string   `json:"technicianId"`
	Summary       *string  `json:"summary,omitempty"`
	HoursWorked   *float64 `json:"hoursWorked,omitempty"`
	MaterialsUsed *string  `json:"materialsUsed,omitempty"`
	CreatedAt     time.Time `json:"-"`
	UpdatedAt     time.Time `json:"-"`
}

func (Report) TableName() string { return "reports" }

// ExpoPushToken keys on the token value itself, not a client id: the
// token is the natural identity handed out by the push service.
type ExpoPushToken struct {
	Token     string  `gorm:"primaryKey;size:255" json:"token"`
	UserID    *string `json:"userId,omitempty"`
	Platform  *string `json:"platform,omitempty"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (ExpoPushToken) TableName() string { return "expopushtokens" }
