package models

import "time"

// DashboardOverview aggregates entity counts and status distributions. All
// values are computed from live rows, never cached in columns.
type DashboardOverview struct {
	Departments     int            `json:"departments"`
	Students        int            `json:"students"`
	Teachers        int            `json:"teachers"`
	Courses         int            `json:"courses"`
	Enrollments     int            `json:"enrollments"`
	CoursesByStatus map[string]int `json:"courses_by_status"`
	StudentsByState map[string]int `json:"students_by_status"`
}

// DepartmentBreakdown summarises one department's population.
type DepartmentBreakdown struct {
	DepartmentID   string `db:"department_id" json:"department_id"`
	DepartmentName string `db:"department_name" json:"department_name"`
	Code           string `db:"code" json:"code"`
	Students       int    `db:"students" json:"students"`
	Teachers       int    `db:"teachers" json:"teachers"`
	Courses        int    `db:"courses" json:"courses"`
}

// StatusCount is a generic (status, count) aggregation row.
type StatusCount struct {
	Status string `db:"status"`
	Count  int    `db:"count"`
}

// SystemMetrics is a lightweight runtime snapshot served next to the
// Prometheus endpoint for quick inspection.
type SystemMetrics struct {
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
