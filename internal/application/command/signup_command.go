package command

type SignUpCommand struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type SignUpCommandResult struct {
	Message string `json:"message"`
	UserId  string `json:"userId"`
}
