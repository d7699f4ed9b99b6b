// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package events publishes vote.cast messages to RabbitMQ.

	conn, err := events.Dial(url, 5*time.Second)
	pub, err := events.NewAMQPPublisher(conn, "votes")
	submitter := voting.NewSubmitter(repo, pub)

Each committed vote becomes one persistent JSON message on a durable queue:

	{"voteId":1,"studentId":1001,"organizationId":1,"pairId":2,"castAt":"..."}

Publishing happens after commit; a broker failure is logged by the
submitter and never undoes a vote.
*/
package events
