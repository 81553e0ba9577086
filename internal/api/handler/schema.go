package handler

import "time"

// --- Requests ---

type registerRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"     validate:"omitempty,max=32"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type createSongRequest struct {
	Title       string `json:"title"       validate:"required"`
	Description string `json:"description"`
	AudioURL    string `json:"audioUrl"`
}

type createCommentRequest struct {
	Content string `json:"content" validate:"required"`
	Rating  *int   `json:"rating"  validate:"omitempty,min=1,max=5"`
}

// --- Responses ---

type userView struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type authResponse struct {
	Token string   `json:"token"`
	User  userView `json:"user"`
}

type meResponse struct {
	UserID int64  `json:"userId"`
	Role   string `json:"role"`
}

type songView struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	AudioURL    *string   `json:"audioUrl"`
	OwnerEmail  string    `json:"ownerEmail"`
	OwnerID     int64     `json:"ownerId"`
	LikeCount   int64     `json:"likeCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

type topSongsResponse struct {
	Songs []songView `json:"songs"`
}

// mySongView is the owner's dashboard shape; it reports likes as "likes".
type mySongView struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	AudioURL    *string   `json:"audioUrl"`
	Likes       int64     `json:"likes"`
	CreatedAt   time.Time `json:"createdAt"`
}

type commentAuthorView struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

type commentView struct {
	ID        int64             `json:"id"`
	Content   string            `json:"content"`
	Rating    *int              `json:"rating"`
	UserID    int64             `json:"userId"`
	SongID    int64             `json:"songId"`
	CreatedAt time.Time         `json:"createdAt"`
	User      commentAuthorView `json:"user"`
}

type commentsResponse struct {
	Comments []commentView `json:"comments"`
}

type okResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}
