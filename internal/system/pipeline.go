package system

import (
	"go.uber.org/zap"

	coresys "github.com/rlcore/dungeon/internal/core/system"
)

// Pipeline is a scheduler over the gameplay resource bundle.
type Pipeline = coresys.Scheduler[*Resources]

// MainPipeline is the turn resolution order. Every stage sits behind its own
// barrier so later stages observe earlier structural edits.
func MainPipeline(log *zap.Logger) *Pipeline {
	return coresys.NewScheduler[*Resources]("main", log).
		Register(NewVisibilitySystem()).Flush().
		Register(NewMonsterAISystem(log)).Flush().
		Register(NewMapIndexSystem()).Flush().
		Register(NewMeleeCombatSystem(log)).Flush().
		Register(NewDamageSystem(log)).Flush().
		Register(NewDeleteTheDeadSystem(log)).Flush().
		Register(NewInventorySystem(log)).Flush().
		Register(NewItemUseSystem(log)).Flush().
		Register(NewItemDropSystem(log)).Flush().
		Register(NewItemRemoveSystem(log)).Flush()
}

func PlayerMovePipeline(log *zap.Logger) *Pipeline {
	return coresys.NewScheduler[*Resources]("player_move", log).Register(NewPlayerMoveSystem())
}

func GetItemPipeline(log *zap.Logger) *Pipeline {
	return coresys.NewScheduler[*Resources]("get_item", log).Register(NewGetItemSystem())
}

func SkipTurnPipeline(log *zap.Logger) *Pipeline {
	return coresys.NewScheduler[*Resources]("skip_turn", log).Register(NewSkipTurnSystem())
}
