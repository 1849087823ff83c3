// Package models defines the core domain models for EventEase.
//
// # Models
//
//   - User: a registered account; also the directory entry resolved by email
//     when organizers add participants.
//   - Event: the aggregate root. It exclusively owns its membership list and
//     its pending join request queue; every membership decision is made
//     against the whole loaded aggregate.
//   - Participant: a membership record embedded in an Event (user, role,
//     join time). Exactly one record carries RoleOrganizer and it always
//     matches Event.OrganizerID.
//   - Expense: an amount paid by one participant and split across users.
//     The split allocations must sum to the expense amount within 0.01.
//   - Task: a unit of event work, optionally assigned to a participant.
//
// # Design principles
//
//  1. IDs are UUID strings, timestamps are Unix seconds.
//  2. Cross-aggregate relations use ID strings, never pointers.
//  3. Structural invariants (role guard, date range, split sum) live here
//     as methods and validators so services cannot bypass them.
package models
