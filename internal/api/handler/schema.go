package handler

import "time"

type tokenRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type createUserRequest struct {
	Email    string `json:"email"     validate:"required,email"`
	Name     string `json:"name"`
	PhotoURL string `json:"photo_url"`
}

type adminStatusResponse struct {
	Admin bool `json:"admin"`
}

type createClassRequest struct {
	Title           string  `json:"title"            validate:"required"`
	Price           float64 `json:"price"            validate:"gt=0"`
	Description     string  `json:"description"`
	Image           string  `json:"image"`
	InstructorName  string  `json:"instructor_name"`
	InstructorEmail string  `json:"instructor_email" validate:"omitempty,email"`
}

type updateClassRequest struct {
	Title       string  `json:"title"       validate:"required"`
	Price       float64 `json:"price"       validate:"gt=0"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
}

type postAssignmentRequest struct {
	ClassID     string    `json:"class_id"    validate:"required"`
	Title       string    `json:"title"       validate:"required"`
	Description string    `json:"description"`
	Deadline    time.Time `json:"deadline"`
}

type submissionRequest struct {
	AssignmentID string `json:"assignment_id" validate:"required"`
	Email        string `json:"email"         validate:"omitempty,email"`
	Content      string `json:"content"       validate:"required"`
}

type countResponse struct {
	Count int64 `json:"count"`
}

type applyTeacherRequest struct {
	Name       string `json:"name"       validate:"required"`
	Email      string `json:"email"      validate:"omitempty,email"`
	Image      string `json:"image"`
	Title      string `json:"title"`
	Experience string `json:"experience"`
	Category   string `json:"category"`
}

type addCartRequest struct {
	Email          string  `json:"email"           validate:"omitempty,email"`
	ClassID        string  `json:"class_id"        validate:"required"`
	Title          string  `json:"title"`
	Price          float64 `json:"price"           validate:"gte=0"`
	Image          string  `json:"image"`
	InstructorName string  `json:"instructor_name"`
}

type paymentIntentRequest struct {
	Price float64 `json:"price" validate:"gt=0"`
}

type paymentIntentResponse struct {
	ClientSecret string `json:"client_secret"`
}

// checkoutRequest is the client's report of a completed charge. Price is
// accepted as an alias of amount.
type checkoutRequest struct {
	ClassIDs      []string       `json:"class_ids"      validate:"len=1,dive,required"`
	CartIDs       []string       `json:"cart_ids"       validate:"dive,required"`
	Email         string         `json:"email"          validate:"required,email"`
	Amount        float64        `json:"amount"`
	Price         float64        `json:"price"`
	TransactionID string         `json:"transaction_id"`
	Method        map[string]any `json:"method"`
}

type feedbackRequest struct {
	ClassID     string `json:"class_id"    validate:"required"`
	Email       string `json:"email"       validate:"omitempty,email"`
	Name        string `json:"name"`
	Rating      int    `json:"rating"      validate:"min=1,max=5"`
	Description string `json:"description" validate:"required"`
}

type messageResponse struct {
	Message string `json:"message"`
}
