package models

import (
	"context"
	"time"

	"gorm.io/gorm"
)

const (
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

// RepricingJob is one bounded execution record of an apply-rule or
// apply-all-rules run. Created in processing state, then a single terminal
// update once the batch finishes.
type RepricingJob struct {
	ID     uint   `gorm:"primary_key" json:"id"`
	UserId string `gorm:"index;size:36;not null" json:"user_id"`
	RuleId *uint  `gorm:"index" json:"rule_id"`

	Status string `gorm:"size:20;not null" json:"status"`

	ProductsTotal      int `gorm:"not null;default:0" json:"products_total"`
	ProductsProcessed  int `gorm:"not null;default:0" json:"products_processed"`
	ProductsSuccessful int `gorm:"not null;default:0" json:"products_successful"`
	ProductsFailed     int `gorm:"not null;default:0" json:"products_failed"`

	ResultsJSON []byte     `gorm:"type:json" json:"results"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func CreateRepricingJob(ctx context.Context, db *gorm.DB, userId string, ruleId *uint, total int) (*RepricingJob, error) {
	job := RepricingJob{
		UserId:        userId,
		RuleId:        ruleId,
		Status:        JobStatusProcessing,
		ProductsTotal: total,
	}
	if err := db.WithContext(ctx).Create(&job).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

func CompleteRepricingJob(ctx context.Context, db *gorm.DB, job *RepricingJob, status string, processed, successful, failed int, resultsJSON []byte) error {
	now := time.Now()
	return db.WithContext(ctx).Model(job).Updates(map[string]interface{}{
		"status":              status,
		"products_processed":  processed,
		"products_successful": successful,
		"products_failed":     failed,
		"results_json":        resultsJSON,
		"completed_at":        now,
	}).Error
}
