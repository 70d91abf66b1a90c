package user

import "time"

type UserResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	AltPhone  string `json:"alt_phone"`
	Address   string `json:"address"`
	Image     string `json:"image"`
	CreatedAt string `json:"created_at"`
}

type PublicUserResponse struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Image   string `json:"image"`
}

type StatsResponse struct {
	Users  int64 `json:"users"`
	Orders int64 `json:"orders"`
}

func MapUserToResponse(u *User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Phone:     u.Phone,
		AltPhone:  u.AltPhone,
		Address:   u.Address,
		Image:     u.Image,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func MapUsersToResponse(users []*User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, MapUserToResponse(u))
	}
	return out
}

func MapPublicUsers(users []*User) []PublicUserResponse {
	out := make([]PublicUserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, PublicUserResponse{
			Name:    u.Name,
			Phone:   u.Phone,
			Address: u.Address,
			Image:   u.Image,
		})
	}
	return out
}

func MapStats(s *Stats) StatsResponse {
	return StatsResponse{Users: s.Users, Orders: s.Orders}
}
