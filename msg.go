package trustvault

// Msg is a message carried by a transaction. Path routes the message to its
// handler and Validate checks it statelessly before any state is read.
type Msg interface {
	Path() string
	Validate() error
}
