package services

// IsAuthorized reports whether requesterId may mutate a resource recorded as
// owned by resourceOwnerId. Empty identities never match.
func IsAuthorized(resourceOwnerId, requesterId string) bool {
	if resourceOwnerId == "" || requesterId == "" {
		return false
	}
	return resourceOwnerId == requesterId
}
