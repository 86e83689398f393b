package training

// CallbackFunc adapts plain functions to the Callback interface. Middlewares
// use it to observe outcomes before forwarding them to the caller.
type CallbackFunc struct {
	Success func()
	Failure func(code Error, message string)
}

func (c CallbackFunc) OnSuccess() {
	if c.Success != nil {
		c.Success()
	}
}

func (c CallbackFunc) OnFailure(code Error, message string) {
	if c.Failure != nil {
		c.Failure(code, message)
	}
}
