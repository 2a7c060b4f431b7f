package agent

import (
	"context"
	"fmt"
	"os"
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/lpsim/lpsim-go/internal/game"
)

// LuaAgent delegates choices to a script that defines
//
//	function choose(requests, state) ... return index end
//
// requests is a 1-based array of tables with the fields type, player,
// combat, name and cost; state holds round, player, hp, opponent_hp and
// dice. The returned index selects the request to answer. A LuaAgent
// owns a Lua VM and must not be shared between goroutines.
type LuaAgent struct {
	name    string
	L       *lua.LState
	logger  *zap.Logger
	timeout time.Duration
}

// DefaultLuaTimeout bounds a single call to choose.
const DefaultLuaTimeout = 2 * time.Second

// NewLuaAgent compiles source in a sandboxed VM.
func NewLuaAgent(name, source string, logger *zap.Logger) (*LuaAgent, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibs(L)
	sandbox(L)
	if err := L.DoString(source); err != nil {
		L.Close()
		return nil, fmt.Errorf("lua agent %s: %w", name, err)
	}
	if _, ok := L.GetGlobal("choose").(*lua.LFunction); !ok {
		L.Close()
		return nil, fmt.Errorf("lua agent %s: script does not define choose", name)
	}
	return &LuaAgent{name: name, L: L, logger: logger, timeout: DefaultLuaTimeout}, nil
}

// LoadLuaAgent reads the script from file.
func LoadLuaAgent(name, file string, logger *zap.Logger) (*LuaAgent, error) {
	src, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("lua agent %s: %w", name, err)
	}
	return NewLuaAgent(name, string(src), logger)
}

func openSafeLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes the globals that reach outside the VM or break
// determinism.
func sandbox(L *lua.LState) {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "collectgarbage"} {
		L.SetGlobal(name, lua.LNil)
	}
	if tbl, ok := L.GetGlobal("math").(*lua.LTable); ok {
		tbl.RawSetString("random", lua.LNil)
		tbl.RawSetString("randomseed", lua.LNil)
	}
}

func (a *LuaAgent) Name() string { return a.name }

// SetTimeout changes the time a single call to choose may take. A
// non-positive d leaves only the caller's context as the bound.
func (a *LuaAgent) SetTimeout(d time.Duration) {
	a.timeout = d
}

// Close releases the VM.
func (a *LuaAgent) Close() {
	a.L.Close()
}

// Respond calls choose with the VM bound to ctx, so a script that runs
// past the timeout or the cancellation of ctx is interrupted.
func (a *LuaAgent) Respond(ctx context.Context, m *game.Match, player int) (game.Response, error) {
	reqs, resps := answerable(m, player)
	if len(reqs) == 0 {
		return nil, fmt.Errorf("player %d: %w", player, ErrNoOption)
	}
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	a.L.SetContext(ctx)
	defer a.L.RemoveContext()
	list := a.L.NewTable()
	for _, r := range reqs {
		list.Append(requestTable(a.L, r))
	}
	err := a.L.CallByParam(lua.P{
		Fn:      a.L.GetGlobal("choose"),
		NRet:    1,
		Protect: true,
	}, list, stateTable(a.L, m, player))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("lua agent %s: %w", a.name, ctxErr)
		}
		return nil, fmt.Errorf("lua agent %s: %w", a.name, err)
	}
	ret := a.L.Get(-1)
	a.L.Pop(1)
	n, ok := ret.(lua.LNumber)
	if !ok {
		return nil, fmt.Errorf("lua agent %s: choose returned %s, want a number", a.name, ret.Type())
	}
	idx := int(n)
	if idx < 1 || idx > len(reqs) {
		return nil, fmt.Errorf("lua agent %s: choice %d out of range 1..%d", a.name, idx, len(reqs))
	}
	a.logger.Debug("lua choice",
		zap.String("agent", a.name),
		zap.Int("player", player),
		zap.String("request", string(reqs[idx-1].Type())))
	return resps[idx-1], nil
}

func requestTable(L *lua.LState, r game.Request) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("type", lua.LString(r.Type()))
	t.RawSetString("player", lua.LNumber(r.PlayerIndex()))
	t.RawSetString("combat", lua.LBool(r.IsCombat()))
	switch v := r.(type) {
	case game.UseSkillRequest:
		t.RawSetString("name", lua.LString(v.Name))
		t.RawSetString("cost", lua.LNumber(v.Cost.Total()))
	case game.UseCardRequest:
		t.RawSetString("name", lua.LString(v.Name))
		t.RawSetString("cost", lua.LNumber(v.Cost.Total()))
	case game.SwitchCharacterRequest:
		t.RawSetString("target", lua.LNumber(v.Target))
		t.RawSetString("cost", lua.LNumber(v.Cost.Total()))
	}
	return t
}

func stateTable(L *lua.LState, m *game.Match, player int) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("round", lua.LNumber(m.Round()))
	t.RawSetString("player", lua.LNumber(player))
	t.RawSetString("dice", lua.LNumber(m.Table(player).Dice.Len()))
	if c := m.Table(player).ActiveCharacter(); c != nil {
		t.RawSetString("hp", lua.LNumber(c.HP))
	}
	if c := m.Table(1 - player).ActiveCharacter(); c != nil {
		t.RawSetString("opponent_hp", lua.LNumber(c.HP))
	}
	return t
}
