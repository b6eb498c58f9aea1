package book

type CreateBookReq struct {
	CoverImage  string `json:"cover_image" validate:"required"`
	Author      string `json:"author" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Year        int64  `json:"year" validate:"required,gt=0"`
	Language    string `json:"language" validate:"required"`
	Description string `json:"description" validate:"required"`
}

type TransferReq struct {
	To int64 `json:"to" validate:"required,gt=0"`
}

type ApproveReq struct {
	Operator int64 `json:"operator" validate:"required,gt=0"`
}
