package models

// Form structs bound from browser posts. Validation tags are enforced by
// gin's binding (go-playground/validator under the hood).

// LoginForm carries the credentials of a login attempt.
type LoginForm struct {
	Email    string `form:"email" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// RegisterForm carries a registration request. Registration is followed by
// an automatic login with the same credentials.
type RegisterForm struct {
	Name     string `form:"name" binding:"required"`
	Email    string `form:"email" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// SearchForm carries the course search query. An empty query lists all
// courses.
type SearchForm struct {
	Query string `form:"q"`
}

// MaterialCreateForm carries the add-material form. The file part is read
// from the multipart request separately.
type MaterialCreateForm struct {
	Title       string `form:"title" binding:"required,notblank,max=200"`
	Description string `form:"description" binding:"required,notblank,max=1000"`
	Type        int    `form:"type" binding:"min=0"`
}

// ChatForm carries one chat message. Emptiness is checked in the controller
// so the user gets the combined select-materials-and-type-a-message alert.
type ChatForm struct {
	Message string `form:"message"`
}
