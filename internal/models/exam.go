package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Exam is a generated exam persisted for its owner.
type Exam struct {
	ID             uint            `json:"id" gorm:"primaryKey"`
	UserID         uint            `json:"user_id" gorm:"not null;index"`
	Query          string          `json:"query" gorm:"not null;size:500"`
	QuestionType   QuestionType    `json:"question_type" gorm:"size:20"`
	Difficulty     DifficultyLevel `json:"difficulty" gorm:"size:50"`
	RequestedCount int             `json:"requested_count"`
	Questions      datatypes.JSON  `json:"questions" gorm:"type:jsonb"`
	Answers        datatypes.JSON  `json:"answers" gorm:"type:jsonb"`
	FailedCount    int             `json:"failed_count" gorm:"default:0"`

	User *User `json:"-" gorm:"foreignKey:UserID"`

	CreatedAt time.Time      `json:"created_at" gorm:"index"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Exam) TableName() string {
	return "exams"
}
