package reqctx

const (
	FieldOperationName = "operationName"
	FieldUserID        = "userId"
)

const (
	errMsgNoRequest     = "No graphql request found"
	errMsgCreateContext = "Error creating context"
	errMsgCancelled     = "Context resolution cancelled"
	errMsgResolverPanic = "user resolver panicked"
)
