package service

import (
	"fmt"

	"github.com/nimbushr/expense-system/internal/core/ports"
)

// Fixed response messages. Store failures always surface as msgStoreFailure;
// the underlying error text never reaches the response body.
const (
	msgNotPermitted = "you do not have permission to take that action"
	msgMalformed    = "request is missing required parameters"
	msgStoreFailure = "the data store could not complete the operation"
)

func successResponse() ports.ActionResponse {
	return ports.ActionResponse{Result: ports.ResultSuccess}
}

func forbiddenResponse(message string) ports.ActionResponse {
	return ports.ActionResponse{Result: ports.ResultForbidden, Message: message}
}

func invalidParameterResponse(message string) ports.ActionResponse {
	return ports.ActionResponse{Result: ports.ResultInvalidParameter, Message: message}
}

func malformedResponse() ports.ActionResponse {
	return ports.ActionResponse{Result: ports.ResultMalformedRequest, Message: msgMalformed}
}

func storeErrorResponse() ports.ActionResponse {
	return ports.ActionResponse{Result: ports.ResultDatabaseError, Message: msgStoreFailure}
}

func userNotFoundResponse(id int64) ports.ActionResponse {
	return invalidParameterResponse(fmt.Sprintf("no user with id %d", id))
}

func usernameNotFoundResponse(username string) ports.ActionResponse {
	return invalidParameterResponse(fmt.Sprintf("no user with username %q", username))
}

func requestNotFoundResponse(id int64) ports.ActionResponse {
	return invalidParameterResponse(fmt.Sprintf("no reimbursement request with id %d", id))
}
