package models

// Principal действующее лицо: вошедший по NTID пользователь
// или анонимный подписчик, известный только по email (ID пустой).
type Principal struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

// Anonymous сообщает, что участник не вошёл в систему.
func (p Principal) Anonymous() bool {
	return p.ID == ""
}
