package dto

// Response is the uniform envelope every portal API operation returns.
// The frontend only ever looks at Success and either Data or Error.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func OK(data interface{}) Response { return Response{Success: true, Data: data} }

func Fail(msg string) Response { return Response{Success: false, Error: msg} }
