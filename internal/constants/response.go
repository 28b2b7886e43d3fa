package constants

// Standard Response Field Keys
const (
	ResponseFieldMessage = "message"
	ResponseFieldDetails = "details"
	ResponseFieldError   = "error"
	ResponseFieldSuccess = "success"
	ResponseFieldData    = "data"
	ResponseFieldUser    = "user"
	ResponseFieldToken   = "token"
	ResponseFieldText    = "text"
)

// Response Format Functions
func BuildErrorResponse(message string, details any) map[string]any {
	response := map[string]any{
		ResponseFieldError: message,
	}

	if details != nil {
		response[ResponseFieldDetails] = details
	}

	return response
}

func BuildSuccessResponse() map[string]any {
	return map[string]any{
		ResponseFieldSuccess: true,
	}
}

func BuildSuccessMessageResponse(message string) map[string]any {
	return map[string]any{
		ResponseFieldSuccess: true,
		ResponseFieldMessage: message,
	}
}
