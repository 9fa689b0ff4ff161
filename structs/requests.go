package structs

type CreateCommandRequest struct {
	RestaurantID string             `json:"restaurant_id" validate:"required"`
	Reservation  ReservationRequest `json:"reservation"`
}

type ReservationRequest struct {
	Date      string      `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Time      string      `json:"time" validate:"omitempty,datetime=15:04"`
	PartySize int         `json:"party_size" validate:"omitempty,gte=1,lte=50"`
	Type      CommandType `json:"type" validate:"omitempty,oneof=dinein takeaway"`
	PreOrder  bool        `json:"pre_order"`
}

func (r ReservationRequest) Details() ReservationDetails {
	return ReservationDetails{
		Date:      r.Date,
		Time:      r.Time,
		PartySize: r.PartySize,
		Type:      r.Type,
		PreOrder:  r.PreOrder,
	}.Normalized()
}

type AddItemRequest struct {
	MenuItemID string `json:"menu_item_id" validate:"required"`
}

type SetQuantityRequest struct {
	// Zero and negative values remove the line.
	Quantity int `json:"quantity"`
}

type WaitstaffRequestBody struct {
	Type WaitstaffRequestType `json:"type" validate:"required,oneof=checkout water other"`
	Note string               `json:"note,omitempty" validate:"omitempty,max=280"`
}

type BeginReservationRequest struct {
	RestaurantID string `json:"restaurant_id" validate:"required"`
}

type ReservationInfoRequest struct {
	Reservation  ReservationRequest `json:"reservation"`
	ContactEmail string             `json:"contact_email,omitempty" validate:"omitempty,email"`
}
