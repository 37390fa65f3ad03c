package rpc

import (
	"github.com/wfunc/wordchain/game"
	"github.com/wfunc/wordchain/score"
)

// AdminService exposes operational controls over net/rpc: the score
// ledger, the word list and room statistics. Methods follow the net/rpc
// signature rules: exported method, exported argument types, second
// argument a pointer, error return.
type AdminService struct {
	engine *game.Engine
	store  score.Store
	dict   game.Dictionary
}

func NewAdminService(engine *game.Engine, store score.Store, dict game.Dictionary) *AdminService {
	return &AdminService{engine: engine, store: store, dict: dict}
}

type LeaderboardArgs struct {
	N int
}

type LeaderboardReply struct {
	Entries []score.Entry
}

func (a *AdminService) Leaderboard(args *LeaderboardArgs, reply *LeaderboardReply) error {
	n := args.N
	if n <= 0 {
		n = 10
	}
	entries, err := a.store.Top(n)
	if err != nil {
		return err
	}
	reply.Entries = entries
	return nil
}

type PlayerScoreArgs struct {
	UserID string
}

type PlayerScoreReply struct {
	Points int
}

func (a *AdminService) PlayerScore(args *PlayerScoreArgs, reply *PlayerScoreReply) error {
	total, err := a.store.Total(score.HumanKey(args.UserID))
	if err != nil {
		return err
	}
	reply.Points = total
	return nil
}

type ResetScoresArgs struct{}

type ResetScoresReply struct{}

func (a *AdminService) ResetScores(args *ResetScoresArgs, reply *ResetScoresReply) error {
	return a.store.Reset()
}

type ReloadWordsArgs struct{}

type ReloadWordsReply struct {
	Count int
}

func (a *AdminService) ReloadWords(args *ReloadWordsArgs, reply *ReloadWordsReply) error {
	if err := a.dict.Reload(); err != nil {
		return err
	}
	reply.Count = a.dict.Len()
	return nil
}

type RoomStatsArgs struct{}

type RoomStatsReply struct {
	Rooms  int
	Active int
}

func (a *AdminService) RoomStats(args *RoomStatsArgs, reply *RoomStatsReply) error {
	reply.Rooms = a.engine.Rooms().Count()
	reply.Active = a.engine.Rooms().ActiveCount()
	return nil
}
