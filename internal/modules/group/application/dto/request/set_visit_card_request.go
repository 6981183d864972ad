package request

type SetVisitCardRequest struct {
	UserId    int64  `json:"-" validate:"gt=0"`
	GroupId   int64  `json:"group_id" validate:"required,gt=0"`
	VisitCard string `json:"visit_card" validate:"required,max=64"`
}
