// Package entity defines the form payloads accepted by the web layer.
package entity

type RegisterForm struct {
	Username  string `form:"username" binding:"required,max=80"`
	Email     string `form:"email" binding:"required,email,max=120"`
	Password  string `form:"password" binding:"required"`
	IsCreator string `form:"is_creator"`
}

// Creator reports whether the creator checkbox was present in the form.
func (f *RegisterForm) Creator() bool {
	return f.IsCreator != ""
}

type LoginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type UploadForm struct {
	Title       string `form:"title" binding:"max=100"`
	Description string `form:"description"`
}

type CommentForm struct {
	Content string `form:"content"`
}

type RateForm struct {
	Rating int `form:"rating" binding:"required,min=1,max=5"`
}

// MediaUri binds the :id path segment of media routes.
type MediaUri struct {
	Id int `uri:"id" binding:"required,min=1"`
}
