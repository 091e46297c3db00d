package models

import "time"

// AuditLog is an immutable record of who did what and when. Rows are only
// ever inserted, in the same transaction as the mutation they describe.
type AuditLog struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	Action    string    `json:"action" db:"action"`
	Details   string    `json:"details" db:"details"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	User      *User     `json:"user,omitempty"` // Relation, no db tag
}

// Audit action names recorded by the services.
const (
	ActionLogin            = "LOGIN"
	ActionLogout           = "LOGOUT"
	ActionCreateUser       = "CREATE_USER"
	ActionUpdateUser       = "UPDATE_USER"
	ActionDeleteUser       = "DELETE_USER"
	ActionToggleUserActive = "TOGGLE_USER_ACTIVE"
	ActionCreateCourse     = "CREATE_COURSE"
	ActionRenameCourse     = "RENAME_COURSE"
	ActionDeleteCourse     = "DELETE_COURSE"
	ActionCreateSubject    = "CREATE_SUBJECT"
	ActionRenameSubject    = "RENAME_SUBJECT"
	ActionDeleteSubject    = "DELETE_SUBJECT"
	ActionCreateEnquiry    = "CREATE_ENQUIRY"
	ActionCancelEnquiry    = "CANCEL_ENQUIRY"
	ActionAdmitStudent     = "ADMIT_STUDENT"
	ActionDirectAdmission  = "DIRECT_ADMISSION"
	ActionRecordPayment    = "RECORD_PAYMENT"
	ActionScheduleVisit    = "SCHEDULE_APPOINTMENT"
	ActionUpdateSettings   = "UPDATE_SETTINGS"
)
