// internal/models/job.go
package models

// JobSummary is the lightweight projection shown on the dashboard,
// recomputed on every fetch.
type JobSummary struct {
	Status            string `json:"status"`
	EstimatedDelivery string `json:"estimatedDelivery"`
}

// FeatureCard is one tile on the home dashboard.
type FeatureCard struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	Icon     string `json:"icon"`
	Route    string `json:"route"`
}

// TimelineEntry is the hosted backend's raw stage shape, embedded as json
// in the jobs table. It never leaves the hosted service layer; it is mapped
// to ProgressStep at the boundary.
type TimelineEntry struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp,omitempty"`
	Note      string `json:"note,omitempty"`
}

// DesignInfo is the nested design sub-object of a hosted job row.
type DesignInfo struct {
	DesignerID   string   `json:"designerId,omitempty"`
	DesignerName string   `json:"designerName,omitempty"`
	Status       string   `json:"status,omitempty"`
	Images       []string `json:"images,omitempty"`
}

// SalespersonInfo is the nested salesperson sub-object of a hosted job row.
type SalespersonInfo struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Job is the richer order record served by the hosted backend. Consumers
// project Status, JobCode and the mapped timeline out of it.
type Job struct {
	ID              string           `json:"id"`
	Status          string           `json:"status"`
	BranchID        string           `json:"branchId,omitempty"`
	CreatedAt       string           `json:"createdAt,omitempty"`
	JobCode         string           `json:"jobCode,omitempty"`
	Amount          float64          `json:"amount,omitempty"`
	Timeline        []ProgressStep   `json:"timeline,omitempty"`
	Design          *DesignInfo      `json:"design,omitempty"`
	Salesperson     *SalespersonInfo `json:"salesperson,omitempty"`
	LastChatMessage string           `json:"lastChatMessage,omitempty"`
}
