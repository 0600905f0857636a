package models

// Class represents a class (rombel) from the roster sheet.
type Class struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	TeacherName string `json:"teacherName,omitempty"`
}

// Student represents a roster entry. Username is the identity key and is
// unique across the system; ID is the sheet row identifier.
type Student struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	ClassID  string `json:"classId"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
