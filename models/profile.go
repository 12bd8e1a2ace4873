package models

type UserProfile struct {
	ID             uint   `gorm:"primaryKey" json:"-"`
	UserID         uint   `gorm:"uniqueIndex" json:"user_id"`
	Bio            string `json:"bio"`
	DisplayName    string `json:"display_name"`
	ProfilePicture string `json:"profile_picture"`
}

// LimitedProfile is the document shape stored in the profile search index.
type LimitedProfile struct {
	UserID      uint   `json:"user_id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DisplayName string `json:"display_name"`
}

func (u *User) GetLimitedProfile() *LimitedProfile {
	l := &LimitedProfile{
		UserID:    u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}

	if u.Profile != nil {
		l.DisplayName = u.Profile.DisplayName
	}

	return l
}
