package vkg

// ByteSourcer provides the raw bytes copied into a buffer
type ByteSourcer interface {
	Bytes() []byte
}
