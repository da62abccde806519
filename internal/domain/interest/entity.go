package interest

// Interest is a named topic a user can declare.
type Interest struct {
	ID   int64
	Name string
}
