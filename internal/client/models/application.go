package models

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ApplicationStatus is the lifecycle state of a job application.
type ApplicationStatus string

const (
	ApplicationPending   ApplicationStatus = "pending"
	ApplicationReviewed  ApplicationStatus = "reviewed"
	ApplicationInvited   ApplicationStatus = "invited"
	ApplicationRejected  ApplicationStatus = "rejected"
	ApplicationWithdrawn ApplicationStatus = "withdrawn"
)

type Application struct {
	ID          string            `json:"id"`
	VacancyID   string            `json:"vacancyId"`
	Vacancy     *Vacancy          `json:"vacancy,omitempty"`
	Status      ApplicationStatus `json:"status"`
	CoverLetter string            `json:"coverLetter,omitempty"`
	ResumeName  string            `json:"resumeName,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// ApplyInput is what the user submits for a vacancy. When Resume is set the
// request goes out as multipart/form-data.
type ApplyInput struct {
	CoverLetter string      `json:"coverLetter,omitempty"`
	Resume      *Attachment `json:"-"`
}

// Attachment is an in-memory file ready to be sent in a multipart body.
type Attachment struct {
	FileName string
	Content  []byte
}

// LoadAttachment reads the file at path into memory.
func LoadAttachment(path string) (*Attachment, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading attachment: %w", err)
	}
	return &Attachment{FileName: filepath.Base(path), Content: content}, nil
}
