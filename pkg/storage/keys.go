package storage

// identityKey identifies a snapshot row. Part ids are server-issued and
// unique across projects.
func identityKey(partID string) string {
	return partID
}
