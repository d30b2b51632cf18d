package gringotts

// EncryptMem encodes data into a new frame using the context's algorithms
func (c *Context) EncryptMem(key *Key, data []byte) ([]byte, error) {
	return c.encode(key, data)
}

// DecryptMem decodes a frame produced by EncryptMem or any other adapter.
// The algorithms recorded in the frame are used; the context's own
// selection is left unchanged.
func (c *Context) DecryptMem(key *Key, frame []byte) ([]byte, error) {
	return c.decode(key, frame)
}

// ValidateMem checks the frame's header tag, version and algorithm byte
// without decrypting it
func (c *Context) ValidateMem(frame []byte) error {
	_, err := c.validateFrame(frame)
	return err
}

// UpdateFromMem sets the context's algorithms to those recorded in frame
func (c *Context) UpdateFromMem(frame []byte) error {
	return c.updateFrom(frame)
}
