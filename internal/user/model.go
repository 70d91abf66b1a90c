package user

import "time"

type User struct {
	ID        int64
	Name      string
	Phone     string
	AltPhone  string
	Address   string
	Image     string
	CreatedAt time.Time
}

// ProfileUpdate carries the editable profile fields. Nil fields are left unchanged.
type ProfileUpdate struct {
	Name     *string
	Phone    *string
	AltPhone *string
	Address  *string
}

func (u ProfileUpdate) Empty() bool {
	return u.Name == nil && u.Phone == nil && u.AltPhone == nil && u.Address == nil
}

type Stats struct {
	Users  int64
	Orders int64
}
