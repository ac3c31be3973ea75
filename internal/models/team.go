package models

import (
	"fmt"
)

// TeamRecord is a team's win/loss tally for one aggregation run
type TeamRecord struct {
	TeamID string `json:"team_id"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
}

// Games returns wins plus losses
func (r TeamRecord) Games() int {
	return r.Wins + r.Losses
}

// ExternalTeamRecord is a cumulative record keyed by the data source's team name
type ExternalTeamRecord struct {
	TeamName string
	Wins     int
	Losses   int
}

// StandingsResponse is the payload of GET /standings?leagueId=...&season=...&date=...
type StandingsResponse struct {
	Records []DivisionRecordInput `json:"records"`
}

// DivisionRecordInput holds the team records of one division
type DivisionRecordInput struct {
	StandingsType string            `json:"standingsType"`
	Division      *DivisionRefInput `json:"division,omitempty"`
	TeamRecords   []TeamRecordInput `json:"teamRecords"`
}

// DivisionRefInput references a division
type DivisionRefInput struct {
	ID int `json:"id"`
}

// TeamRecordInput is a team's cumulative record as returned by the API
type TeamRecordInput struct {
	Team   TeamRefInput `json:"team"`
	Wins   *int         `json:"wins"`
	Losses *int         `json:"losses"`
}

// ToExternalTeamRecord converts TeamRecordInput (from API) to an ExternalTeamRecord
func (ti *TeamRecordInput) ToExternalTeamRecord() (*ExternalTeamRecord, error) {
	if ti.Team.Name == "" {
		return nil, fmt.Errorf("team record without team name")
	}
	if ti.Wins == nil || ti.Losses == nil {
		return nil, fmt.Errorf("team %q: missing wins or losses", ti.Team.Name)
	}
	if *ti.Wins < 0 || *ti.Losses < 0 {
		return nil, fmt.Errorf("team %q: negative record %d-%d", ti.Team.Name, *ti.Wins, *ti.Losses)
	}

	return &ExternalTeamRecord{
		TeamName: ti.Team.Name,
		Wins:     *ti.Wins,
		Losses:   *ti.Losses,
	}, nil
}
