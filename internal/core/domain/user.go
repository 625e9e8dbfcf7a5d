package domain

import "time"

// User - текущий пользователь сессии.
type User struct {
	ID        string
	Email     string
	Role      string
	CreatedAt time.Time
}

// Credentials - данные для входа и регистрации.
type Credentials struct {
	Email    string
	Password string
}

// AuthResult - ответ бэкенда на вход или регистрацию.
type AuthResult struct {
	Token string
	User  User
}

// Profile - профиль пользователя.
type Profile struct {
	ID        string
	FullName  string
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProfileUpdate - изменяемые поля профиля.
type ProfileUpdate struct {
	FullName string
	Email    string
	Phone    string
}
