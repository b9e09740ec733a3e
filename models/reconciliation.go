package models

import "time"

// Reconciliation is a platform product that was created for a bundle but
// neither linked to a local bundle nor deleted
type Reconciliation struct {
	ID         int64      `json:"id"`
	Shop       string     `json:"shop"`
	ProductID  string     `json:"productId"`
	Reason     string     `json:"reason"`
	CreatedAt  time.Time  `json:"createdAt"`
	ResolvedAt *time.Time `json:"resolvedAt,omitempty"`
}

// ReconcileResult summarizes a reconciliation run
type ReconcileResult struct {
	Total    int      `json:"total"`
	Resolved int      `json:"resolved"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors,omitempty"`
}
