package consts

const (
	TokenRevokedKey = "session:revoked:"
	PostDirtyKey    = "post:dirty"
)
