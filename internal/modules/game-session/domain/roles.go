package domain

import "github.com/cespare/xxhash/v2"

// AssignRoles decides who moves first from hash(inviter || accepter).
// A zero low bit gives the first move to the accepter. The first mover always
// plays First. The argument order matters.
func AssignRoles(inviter, accepter PrincipalID) (firstMover PrincipalID, inviterRole Role, accepterRole Role) {
	h := xxhash.Sum64String(string(inviter) + string(accepter))

	if h&1 == 0 {
		return accepter, Second, First
	}
	return inviter, First, Second
}
