package rental

type RentRequestReq struct {
	Payment float64 `json:"payment" validate:"required,gt=0"`
}

type ConfirmRentReq struct {
	Expires int64 `json:"expires" validate:"required,gt=0"` // unix seconds
}

type SetUserReq struct {
	User    int64 `json:"user" validate:"gte=0"`
	Expires int64 `json:"expires" validate:"gte=0"`
}
