package exported

// Acknowledgement defines the interface used to return
// acknowledgements in the OnRecvPacket callback.
type Acknowledgement interface {
	// Success tells core IBC whether the application state changes made while
	// receiving the packet should be kept. It is independent of the
	// application level result encoded in the acknowledgement bytes.
	Success() bool
	Acknowledgement() []byte
}
