package ports

import "github.com/bnema/pcg-autocatch/internal/domain"

type Presenter interface {
	StatusChanged(status domain.ConnectionStatus)
	ModeChanged(mode domain.BotMode)
	SnapshotUpdated(snapshot domain.GameSnapshot)
	SpawnObserved(record domain.SpawnRecord, creature domain.CreatureFacts)
}

// Presenters fans every notification out to each presenter in order.
type Presenters []Presenter

var _ Presenter = Presenters(nil)

func (p Presenters) StatusChanged(status domain.ConnectionStatus) {
	for _, presenter := range p {
		presenter.StatusChanged(status)
	}
}

func (p Presenters) ModeChanged(mode domain.BotMode) {
	for _, presenter := range p {
		presenter.ModeChanged(mode)
	}
}

func (p Presenters) SnapshotUpdated(snapshot domain.GameSnapshot) {
	for _, presenter := range p {
		presenter.SnapshotUpdated(snapshot)
	}
}

func (p Presenters) SpawnObserved(record domain.SpawnRecord, creature domain.CreatureFacts) {
	for _, presenter := range p {
		presenter.SpawnObserved(record, creature)
	}
}
