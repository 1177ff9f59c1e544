// Package approval implements the human-approval boundary: the pending
// approval entity, the repository contract with its single-decision
// guarantee, the gate evaluated before plan execution, and decision events.
package approval
