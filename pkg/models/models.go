package models

// Domain models for the marketplace. Collections are persisted as JSON blobs
// in the key-value store, one array per collection key.

type Role string

const (
	RoleExpert   Role = "EXPERT"
	RoleCustomer Role = "CUSTOMER"
)

type AvailabilityStatus string

const (
	Available   AvailabilityStatus = "AVAILABLE"
	Busy        AvailabilityStatus = "BUSY"
	Unavailable AvailabilityStatus = "UNAVAILABLE"
)

type CompanySize string

const (
	SizeStartup    CompanySize = "STARTUP"
	SizeSMB        CompanySize = "SMB"
	SizeEnterprise CompanySize = "ENTERPRISE"
)

type SkillLevel string

const (
	LevelBeginner     SkillLevel = "BEGINNER"
	LevelIntermediate SkillLevel = "INTERMEDIATE"
	LevelAdvanced     SkillLevel = "ADVANCED"
	LevelExpert       SkillLevel = "EXPERT"
)

type Skill struct {
	ID    int64      `json:"id"`
	Name  string     `json:"name"`
	Level SkillLevel `json:"level"`
}

type Availability struct {
	Status            AvailabilityStatus `json:"status"`
	NextAvailableDate string             `json:"nextAvailableDate,omitempty"`
}

type Experience struct {
	Years   int    `json:"years"`
	Summary string `json:"summary,omitempty"`
}

// ExpertProfile holds the fields that only exist for EXPERT users.
type ExpertProfile struct {
	Skills       []Skill      `json:"skills"`
	Bio          string       `json:"bio,omitempty"`
	HourlyRate   float64      `json:"hourlyRate"`
	Availability Availability `json:"availability"`
	Experience   Experience   `json:"experience"`
}

type Company struct {
	Name     string      `json:"name"`
	Position string      `json:"position,omitempty"`
	Industry string      `json:"industry,omitempty"`
	Size     CompanySize `json:"size,omitempty"`
}

// CustomerProfile holds the fields that only exist for CUSTOMER users.
type CustomerProfile struct {
	Company Company `json:"company"`
}

// User is a tagged union keyed by Role: exactly one of Expert or Customer is
// set, matching the role. Role is immutable after registration.
type User struct {
	ID           int64            `json:"id"`
	Email        string           `json:"email"`
	FirstName    string           `json:"firstName"`
	LastName     string           `json:"lastName"`
	Role         Role             `json:"role"`
	PasswordHash string           `json:"passwordHash,omitempty"`
	Expert       *ExpertProfile   `json:"expert,omitempty"`
	Customer     *CustomerProfile `json:"customer,omitempty"`
	CreatedAt    int64            `json:"createdAt"`
	UpdatedAt    int64            `json:"updatedAt"`
}

// Sanitized returns a copy safe to put on the wire (no password hash).
func (u User) Sanitized() User {
	u.PasswordHash = ""
	return u
}

type ProjectStatus string

const (
	ProjectOpen       ProjectStatus = "OPEN"
	ProjectInProgress ProjectStatus = "IN_PROGRESS"
	ProjectCompleted  ProjectStatus = "COMPLETED"
	ProjectCancelled  ProjectStatus = "CANCELLED"
)

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "PENDING"
	ApplicationAccepted ApplicationStatus = "ACCEPTED"
	ApplicationRejected ApplicationStatus = "REJECTED"
)

type Budget struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Currency string  `json:"currency"`
}

type DurationUnit string

const (
	UnitDays   DurationUnit = "DAYS"
	UnitWeeks  DurationUnit = "WEEKS"
	UnitMonths DurationUnit = "MONTHS"
)

type Duration struct {
	Estimate int          `json:"estimate"`
	Unit     DurationUnit `json:"unit"`
}

// ProjectApplication is owned by its parent Project and stored inline.
type ProjectApplication struct {
	ID           int64             `json:"id"`
	ExpertID     int64             `json:"expertId"`
	ProjectID    int64             `json:"projectId"`
	Status       ApplicationStatus `json:"status"`
	ProposedRate float64           `json:"proposedRate"`
	CoverLetter  string            `json:"coverLetter,omitempty"`
	CreatedAt    int64             `json:"createdAt"`
}

type Project struct {
	ID                 int64                `json:"id"`
	CustomerID         int64                `json:"customerId"`
	Title              string               `json:"title"`
	Description        string               `json:"description"`
	Status             ProjectStatus        `json:"status"`
	Budget             Budget               `json:"budget"`
	RequiredSkills     []string             `json:"requiredSkills"`
	PreferredLanguages []string             `json:"preferredLanguages,omitempty"`
	Duration           Duration             `json:"duration"`
	Applications       []ProjectApplication `json:"applications"`
	CreatedAt          int64                `json:"createdAt"`
	UpdatedAt          int64                `json:"updatedAt"`
}

type VoteType string

const (
	VoteUp   VoteType = "UP"
	VoteDown VoteType = "DOWN"
)

// Vote carries no ID of its own: at most one vote per (answer, user) pair.
type Vote struct {
	UserID int64    `json:"userId"`
	Type   VoteType `json:"type"`
}

// Answer is owned by its Question and stored inline.
type Answer struct {
	ID         int64  `json:"id"`
	QuestionID int64  `json:"questionId"`
	AuthorID   int64  `json:"authorId"`
	Content    string `json:"content"`
	Votes      []Vote `json:"votes"`
	CreatedAt  int64  `json:"createdAt"`
	UpdatedAt  int64  `json:"updatedAt"`
}

type Question struct {
	ID        int64    `json:"id"`
	AuthorID  int64    `json:"authorId"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Tags      []string `json:"tags"`
	Answers   []Answer `json:"answers"`
	CreatedAt int64    `json:"createdAt"`
	UpdatedAt int64    `json:"updatedAt"`
}

// AuthResponse is the body returned by login and register.
type AuthResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}
