package tiebreak

import "errors"

var ErrTooFewCompetitors = errors.New("a tiebreaker needs at least two competitors")
var ErrNotSessionMember = errors.New("competitor is not part of the tiebreaker session")
var ErrRatingOutOfRange = errors.New("rating is outside the allowed range")
var ErrJudgeNotActive = errors.New("judge is not active")
var ErrVotingIncomplete = errors.New("not every active judge has voted for every competitor")
var ErrUnresolvedTie = errors.New("supplementary votes are tied, no winner can be declared")
