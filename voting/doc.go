// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package voting implements vote submission and tallying.

# Submission

Requests are parsed first; every malformed field is reported together:

	sub, err := voting.ParseSubmission(req)   // *ValidationError

studentId and each organizationPairIds entry may be a JSON number or a
numeric string; organizationPairIds may also be a single value.

The Submitter then records the selections atomically:

	s := voting.NewSubmitter(repo, publisher, feed)
	votes, err := s.Submit(ctx, sub)

Rules enforced inside the transaction:

  - every pair id must exist
  - at most one selection per organization in a submission
  - at most one vote per student per organization, ever

A violation of the last rule returns *AlreadyVotedError and nothing is
written. Repository failures come back as *StorageError. Notifiers run
after commit and cannot fail the submission.

# Tally

	results, err := voting.NewTallier(repo).Tally(ctx)

For each organization and pair: voteCount, totalVoteCount for the
organization, and percentage = 100 * voteCount / totalVoteCount. The
percentage is nil when the organization has no votes. Pairs are sorted by
descending percentage; ties keep pair id order.
*/
package voting
