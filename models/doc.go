// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - SubmitVoteRequest: studentId, organizationPairIds (raw, parsed by voting)
  - LoginRequest: username, password
  - StudentLoginRequest: studentId, password

# Response Types

Types for JSON responses:

  - SubmitVoteResponse: message, recorded
  - LoginResponse: message, token, expiresAt
  - VoteStatusResponse: studentId, hasVoted, voted/remaining organization ids
  - ErrorResponse: error, message, issues

# Domain Types

Reference data (seeded, read-only):

  - Organization: id, name, pairs
  - Pair: candidate slate within one organization
  - OrganizationMember: chairman or vice chairman of a pair

Votes and derived data:

  - Vote: one row per student per organization
  - PairVoteCount: grouped count used by the tally
  - VotingResult: per-pair count and percentage
  - VoteCastEvent: published after a vote is committed

# Constants

Member roles:

	RoleChairman     = "chairman"
	RoleViceChairman = "vice_chairman"
*/
package models
