package vote

import (
	"errors"
)

var ErrInvalidDirection = errors.New("投票类型无效")

// Direction 投票方向，取值与客户端请求中的 value 字段一致
type Direction string

const (
	DirUp   Direction = "upVote"
	DirDown Direction = "downVote"
)

// ParseDirection 解析客户端传入的投票方向
func ParseDirection(value string) (Direction, error) {
	switch Direction(value) {
	case DirUp, DirDown:
		return Direction(value), nil
	}
	return "", ErrInvalidDirection
}

// State 单个投票者对某个目标的立场
type State int

const (
	StateNone State = iota
	StateUp
	StateDown
)

func (s State) String() string {
	switch s {
	case StateUp:
		return "up"
	case StateDown:
		return "down"
	default:
		return "none"
	}
}

// Ballot 目标（问题或回答）上的赞成/反对集合
// 同一个投票者最多只会出现在其中一个集合里
type Ballot struct {
	Up   *Set
	Down *Set
}

// Tally 一次投票前后的计数
type Tally struct {
	PrevUp   int
	PrevDown int
	CurUp    int
	CurDown  int
	State    State
}

// StateOf 返回投票者当前立场
func (b Ballot) StateOf(voterID int64) State {
	switch {
	case b.Up.Has(voterID):
		return StateUp
	case b.Down.Has(voterID):
		return StateDown
	default:
		return StateNone
	}
}

// Cast 切换投票者的立场：先移出相反集合，再在目标集合中切换
func (b Ballot) Cast(voterID int64, dir Direction) Tally {
	t := Tally{
		PrevUp:   b.Up.Len(),
		PrevDown: b.Down.Len(),
	}

	target, opposite := b.Up, b.Down
	if dir == DirDown {
		target, opposite = b.Down, b.Up
	}

	opposite.Remove(voterID)
	if !target.Remove(voterID) {
		target.Add(voterID)
	}

	t.CurUp = b.Up.Len()
	t.CurDown = b.Down.Len()
	t.State = b.StateOf(voterID)
	return t
}
