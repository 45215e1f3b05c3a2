package errs

// Authentication errors shared by the session layer and the services.
var (
	Unauthorized       = AuthRequired("")
	InvalidCredentials = AuthRequired("Invalid username or password")
	AdminOnly          = Forbidden("Only administrators can do that")
)
