package models

// AttendanceStatus enumerates the supported attendance marks.
type AttendanceStatus string

const (
	AttendancePresent    AttendanceStatus = "present"
	AttendanceSick       AttendanceStatus = "sick"
	AttendancePermission AttendanceStatus = "permission"
	AttendanceAbsent     AttendanceStatus = "absent"
)

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceSick, AttendancePermission, AttendanceAbsent:
		return true
	default:
		return false
	}
}

// AttendanceRecord is a raw per-student per-date attendance row. The natural
// key (classId, date, studentUsername) should be unique upstream; duplicates
// are not deduplicated here and will double-count in aggregates.
type AttendanceRecord struct {
	ID              string           `json:"id"`
	ClassID         string           `json:"classId"`
	Date            string           `json:"date"` // ISO date, YYYY-MM-DD
	StudentUsername string           `json:"studentUsername"`
	Status          AttendanceStatus `json:"status"`
	Notes           string           `json:"notes,omitempty"`
}

// AttendanceGlobalStats aggregates every attendance record regardless of any
// class/date filter currently applied by the caller.
type AttendanceGlobalStats struct {
	TotalPresent    int    `json:"totalPresent"`
	TotalSick       int    `json:"totalSick"`
	TotalPermission int    `json:"totalPermission"`
	TotalAbsent     int    `json:"totalAbsent"`
	TotalRecords    int    `json:"totalRecords"`
	UniqueDates     int    `json:"uniqueDates"`
	UniqueStudents  int    `json:"uniqueStudents"`
	DateRange       string `json:"dateRange"`
}

// ClassAttendanceRecap is the per-class rollup, recomputed on every fetch.
type ClassAttendanceRecap struct {
	ClassID         string  `json:"classId"`
	ClassName       string  `json:"className"`
	TotalStudents   int     `json:"totalStudents"`
	TotalRecords    int     `json:"totalRecords"`
	PresentCount    int     `json:"presentCount"`
	SickCount       int     `json:"sickCount"`
	PermissionCount int     `json:"permissionCount"`
	AbsentCount     int     `json:"absentCount"`
	AttendanceRate  float64 `json:"attendanceRate"`
	UniqueDates     int     `json:"uniqueDates"`
	DateRange       string  `json:"dateRange"`
}

// DailyRecordingStatus describes how complete a class/date combination is.
type DailyRecordingStatus string

const (
	DailyNotTaken DailyRecordingStatus = "not-taken"
	DailyPartial  DailyRecordingStatus = "partial"
	DailyComplete DailyRecordingStatus = "complete"
)

// ClassDailyStatus reports recording completeness for one class and date.
// Total may be an estimate when the roster was unavailable (see
// AttendanceService.ClassDailyStatus).
type ClassDailyStatus struct {
	ClassID string               `json:"classId"`
	Date    string               `json:"date"`
	Status  DailyRecordingStatus `json:"status"`
	Count   int                  `json:"count"`
	Total   int                  `json:"total"`
}
