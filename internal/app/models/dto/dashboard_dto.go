package dto

// DashboardResponse aggregates headline counts for the admin landing page.
type DashboardResponse struct {
	TotalStudents     int64   `json:"totalStudents"`
	TotalEnquiries    int64   `json:"totalEnquiries"`
	TotalStaff        int64   `json:"totalStaff"`
	TotalAppointments int64   `json:"totalAppointments"`
	FeesCollected     float64 `json:"feesCollected"`
	FeesPending       float64 `json:"feesPending"`
}

// StaffHomeResponse is the landing payload for a STAFF user.
type StaffHomeResponse struct {
	Username      string `json:"username"`
	TotalStudents int64  `json:"totalStudents"`
	TotalCourses  int    `json:"totalCourses"`
}
