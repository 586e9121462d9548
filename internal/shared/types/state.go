package types

// ListenerInfo holds the runtime listening info of the server.
type ListenerInfo struct {
	Address string
	Port    int
}
