package command

type LoginCommand struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginCommandResult struct {
	Token  string `json:"token"`
	UserId string `json:"userId"`
}
