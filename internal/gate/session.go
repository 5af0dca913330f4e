package gate

type sessionKey string

const authenticatedSessionKey = sessionKey("authenticated")
