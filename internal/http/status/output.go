package status

// Output is a raw response body with an explicit content type.
type Output struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

func textOutput(s string) *Output {
	return &Output{ContentType: contentTypeText, Body: []byte(s)}
}
