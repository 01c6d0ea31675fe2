package models

type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusDispatched JobStatus = "dispatched"
	JobStatusEnRoute    JobStatus = "en_route"
	JobStatusOnSite     JobStatus = "on_site"
	JobStatusLoading    JobStatus = "loading"
	JobStatusInTransit  JobStatus = "in_transit"
	JobStatusDumping    JobStatus = "dumping"
	JobStatusComplete   JobStatus = "complete"
	JobStatusCancelled  JobStatus = "cancelled"
)

// JobStatuses lists every status in lifecycle order.
var JobStatuses = []JobStatus{
	JobStatusPending,
	JobStatusDispatched,
	JobStatusEnRoute,
	JobStatusOnSite,
	JobStatusLoading,
	JobStatusInTransit,
	JobStatusDumping,
	JobStatusComplete,
	JobStatusCancelled,
}

// InProgressStatuses are the field statuses between dispatch and completion.
var InProgressStatuses = []JobStatus{
	JobStatusEnRoute,
	JobStatusOnSite,
	JobStatusLoading,
	JobStatusInTransit,
	JobStatusDumping,
}

var jobTransitions = map[JobStatus][]JobStatus{
	JobStatusPending:    {JobStatusDispatched, JobStatusCancelled},
	JobStatusDispatched: {JobStatusPending, JobStatusEnRoute, JobStatusCancelled},
	JobStatusEnRoute:    {JobStatusOnSite, JobStatusCancelled},
	JobStatusOnSite:     {JobStatusLoading, JobStatusDumping, JobStatusCancelled},
	JobStatusLoading:    {JobStatusInTransit, JobStatusCancelled},
	JobStatusInTransit:  {JobStatusDumping, JobStatusCancelled},
	JobStatusDumping:    {JobStatusInTransit, JobStatusComplete, JobStatusCancelled},
	JobStatusComplete:   nil,
	JobStatusCancelled:  nil,
}

func (s JobStatus) Valid() bool {
	_, ok := jobTransitions[s]
	return ok
}

func (s JobStatus) InProgress() bool {
	for _, p := range InProgressStatuses {
		if s == p {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is allowed from s.
func (s JobStatus) Terminal() bool {
	return s == JobStatusComplete || s == JobStatusCancelled
}

// CanTransitionTo reports whether next is reachable from s in one step.
// Re-setting the current status is always allowed.
func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	if !next.Valid() {
		return false
	}
	if s == next {
		return true
	}
	for _, allowed := range jobTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
