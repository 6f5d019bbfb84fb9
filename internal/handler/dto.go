package handler

type ForexDataRequest struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Period string `json:"period"`
}

type ErrorResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}
