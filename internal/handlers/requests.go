package handlers

import (
	"strings"

	"github.com/recruitdesk/apiserver/types"
)

// JobRequest is the editable shape of a job posting.
type JobRequest struct {
	Title         string `json:"title" validate:"required" msg:"Job title is required"`
	Department    string `json:"department"`
	Location      string `json:"location"`
	Status        string `json:"status" validate:"omitempty,oneof=Open Closed"`
	AboutJob      string `json:"aboutJob"`
	AboutCompany  string `json:"aboutCompany"`
	Qualification string `json:"qualification"`
	CTC           string `json:"ctc"`
	Skills        string `json:"skills"`
}

func (req *JobRequest) normalize() {
	req.Title = strings.TrimSpace(req.Title)
	req.Status = strings.TrimSpace(req.Status)
	req.Skills = strings.TrimSpace(req.Skills)
}

func (req JobRequest) toJob() types.Job {
	return types.Job{
		Title:         req.Title,
		Department:    req.Department,
		Location:      req.Location,
		Status:        req.Status,
		AboutJob:      req.AboutJob,
		AboutCompany:  req.AboutCompany,
		Qualification: req.Qualification,
		CTC:           req.CTC,
		Skills:        req.Skills,
	}
}

// CandidateRequest is the editable shape of a candidate.
type CandidateRequest struct {
	Name           string `json:"name" validate:"required" msg:"Candidate name is required"`
	Email          string `json:"email" validate:"required,email" msg:"Valid email is required"`
	Position       string `json:"position"`
	Status         string `json:"status" validate:"omitempty,oneof=Applied Interviewed Rejected"`
	AboutCandidate string `json:"aboutCandidate"`
	Skills         string `json:"skills"`
	ResumeLink     string `json:"resumeLink" validate:"omitempty,url" msg:"Valid resume link is required"`
	Experience     string `json:"experience"`
}

func (req *CandidateRequest) normalize() {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Status = strings.TrimSpace(req.Status)
	req.Skills = strings.TrimSpace(req.Skills)
	req.ResumeLink = strings.TrimSpace(req.ResumeLink)
}

func (req CandidateRequest) toCandidate() types.Candidate {
	return types.Candidate{
		Name:           req.Name,
		Email:          req.Email,
		Position:       req.Position,
		Status:         req.Status,
		AboutCandidate: req.AboutCandidate,
		Skills:         req.Skills,
		ResumeLink:     req.ResumeLink,
		Experience:     req.Experience,
	}
}

// InterviewRequest is the editable shape of an interview.
type InterviewRequest struct {
	CandidateID   string `json:"candidateId" validate:"required" msg:"Valid candidate ID is required"`
	CandidateName string `json:"candidateName"`
	Position      string `json:"position"`
	Interviewer   string `json:"interviewer"`
	DateTime      string `json:"dateTime" validate:"omitempty,timestamp" msg:"Valid date is required"`
	Mode          string `json:"mode" validate:"omitempty,oneof=Online In-Person"`
	Status        string `json:"status" validate:"omitempty,oneof=Scheduled Rescheduled Completed Cancelled"`
	Notes         string `json:"notes"`
	MeetingLink   string `json:"meetingLink" validate:"omitempty,url" msg:"Valid meeting link is required"`
}

func (req *InterviewRequest) normalize() {
	req.CandidateID = strings.TrimSpace(req.CandidateID)
	req.CandidateName = strings.TrimSpace(req.CandidateName)
	req.DateTime = strings.TrimSpace(req.DateTime)
	req.Mode = strings.TrimSpace(req.Mode)
	req.Status = strings.TrimSpace(req.Status)
	req.MeetingLink = strings.TrimSpace(req.MeetingLink)
}

func (req InterviewRequest) toInterview() types.Interview {
	return types.Interview{
		CandidateID:   req.CandidateID,
		CandidateName: req.CandidateName,
		Position:      req.Position,
		Interviewer:   req.Interviewer,
		DateTime:      optionalTimestamp(req.DateTime),
		Mode:          req.Mode,
		Status:        req.Status,
		Notes:         req.Notes,
		MeetingLink:   req.MeetingLink,
	}
}

// OfferLetterRequest is the editable shape of an offer letter. Status is
// accepted on create only; afterwards it moves through send-email.
type OfferLetterRequest struct {
	CandidateID   string `json:"candidateId" validate:"required" msg:"Valid candidate ID is required"`
	CandidateName string `json:"candidateName"`
	Position      string `json:"position"`
	DateIssued    string `json:"dateIssued" validate:"omitempty,timestamp"`
	Status        string `json:"status" validate:"omitempty,oneof=Pending Accepted Rejected"`
	Content       string `json:"content"`
	Salary        string `json:"salary"`
	StartDate     string `json:"startDate"`
	Notes         string `json:"notes"`
}

func (req *OfferLetterRequest) normalize() {
	req.CandidateID = strings.TrimSpace(req.CandidateID)
	req.CandidateName = strings.TrimSpace(req.CandidateName)
	req.DateIssued = strings.TrimSpace(req.DateIssued)
	req.Status = strings.TrimSpace(req.Status)
}

func (req OfferLetterRequest) toOfferLetter() types.OfferLetter {
	return types.OfferLetter{
		CandidateID:   req.CandidateID,
		CandidateName: req.CandidateName,
		Position:      req.Position,
		DateIssued:    optionalTimestamp(req.DateIssued),
		Status:        req.Status,
		Content:       req.Content,
		Salary:        req.Salary,
		StartDate:     req.StartDate,
		Notes:         req.Notes,
	}
}

// SendEmailRequest carries the decision to announce. Unknown values are
// rejected by the service as an invalid status.
type SendEmailRequest struct {
	Status string `json:"status"`
}

func (req *SendEmailRequest) normalize() {
	req.Status = strings.TrimSpace(req.Status)
}

// ProfileFields are the self-service profile attributes.
type ProfileFields struct {
	Phone            string `json:"phone"`
	Department       string `json:"department"`
	Designation      string `json:"designation"`
	Address          string `json:"address"`
	Gender           string `json:"gender"`
	DOB              string `json:"dob"`
	LinkedIn         string `json:"linkedin"`
	EmergencyContact string `json:"emergencyContact"`
}

func (p ProfileFields) toProfile() types.Profile {
	return types.Profile{
		Phone:            p.Phone,
		Department:       p.Department,
		Designation:      p.Designation,
		Address:          p.Address,
		Gender:           p.Gender,
		DOB:              p.DOB,
		LinkedIn:         p.LinkedIn,
		EmergencyContact: p.EmergencyContact,
	}
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email" msg:"Valid email is required"`
	Password string `json:"password" validate:"required,min=8" msg:"Password must be at least 8 characters long"`
	Name     string `json:"name" validate:"required" msg:"Name is required"`
	ProfileFields
}

func (req *RegisterRequest) normalize() {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email" msg:"Valid email is required"`
	Password string `json:"password" validate:"required" msg:"Password is required"`
}

func (req *LoginRequest) normalize() {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email" msg:"Valid email is required"`
}

func (req *ForgotPasswordRequest) normalize() {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
}

type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required" msg:"Token is required"`
	Password string `json:"password" validate:"required,min=8" msg:"Password must be at least 8 characters long"`
}

func (req *ResetPasswordRequest) normalize() {
	req.Token = strings.TrimSpace(req.Token)
}

type VerifyPasswordRequest struct {
	Password string `json:"password" validate:"required" msg:"Password is required"`
}

func (req *VerifyPasswordRequest) normalize() {}

type UpdateProfileRequest struct {
	Name string `json:"name" validate:"required" msg:"Name is required"`
	ProfileFields
}

func (req *UpdateProfileRequest) normalize() {
	req.Name = strings.TrimSpace(req.Name)
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword" validate:"omitempty,min=8" msg:"Password must be at least 8 characters long"`
}

func (req *ChangePasswordRequest) normalize() {}
