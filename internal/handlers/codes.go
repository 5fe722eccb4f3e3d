package handlers

// Response text codes. Error responses carry the bare code as their body;
// successful mutations wrap it as {"message": code}. Resources that exist
// but belong to another user answer with the same "no ... found" code as
// resources that do not exist at all.
const (
	codeNoJWT      = "no jwt"
	codeInvalidJWT = "invalid jwt"

	codeUserMissing = "user missing"
	codeNoUserFound = "no user found"

	codeNoFolderFound = "no folder found"
	codeNoCardFound   = "no card found"
	codeNoScoreFound  = "no score found"

	codeInvalidData   = "invalid data"
	codeNoData        = "no data"
	codeShortPassword = "short password"
	codeWrongPassword = "wrong password"

	codeEmailAlreadyExists = "email already exists"
	codeScoreAlreadyExists = "score already exists"

	codeUserUpdated = "user updated"
	codeUserDeleted = "user deleted"

	codeFolderCreated = "folder created"
	codeFolderUpdated = "folder updated"
	codeFolderDeleted = "folder deleted"

	codeCardCreated = "card created"
	codeCardUpdated = "card updated"
	codeCardDeleted = "card deleted"

	codeScoreCreated = "score created"
	codeScoreUpdated = "score updated"
	codeScoreDeleted = "score deleted"

	codeInternalError = "internal error"
)
