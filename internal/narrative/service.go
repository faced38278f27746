package narrative

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	textmessage "golang.org/x/text/message"

	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/pkg/kingdoms"
)

const searchSystem = `You are the game master of a Three Kingdoms strategy game. Reply with one JSON object only.`

const searchPrompt = `General %s is searching the city of %s for talent or resources.
Choose one outcome: a small amount of gold (up to 300) or food (up to 500) is common, a local talent is rare (15%%), a flavour event with no gain is uncommon.
Do not pick any of these names for a talent: %s.
Return {"description": string, "gold": int, "food": int, "general": null or {"name": string, "war": int, "intel": int, "pol": int, "chr": int, "bio": string}}.`

const rumorPrompt = `Write a one-sentence rumour or piece of news from the Three Kingdoms era for turn %d, year %d. Reply with the sentence only.`

var rumors = []string{
	"Locals speak of a dragon sighting near the river.",
	"Harvests are poor in the north due to locusts.",
	"A wandering sage is teaching tactics in the capital.",
	"Bandits have been seen gathering in the mountain passes.",
	"Merchants from the west bring tales of fine horses.",
	"A comet was seen over the imperial palace last night.",
	"The eunuchs are said to be plotting again at court.",
	"Floods have swollen the Yangtze beyond its banks.",
}

// Service implements kingdoms.Narrator. Remote failures are logged and
// answered locally; callers never see an error.
type Service struct {
	client  *Client
	rules   kingdoms.Rules
	mu      sync.Mutex
	rng     kingdoms.Rand
	printer *textmessage.Printer
}

// NewService returns a narrator. client may be nil.
func NewService(client *Client, rules kingdoms.Rules, rng kingdoms.Rand) *Service {
	if rng == nil {
		rng = kingdoms.NewSeededRand()
	}
	return &Service{client: client, rules: rules, rng: rng, printer: textmessage.NewPrinter(language.English)}
}

type searchReply struct {
	Description string `json:"description"`
	Gold        int    `json:"gold"`
	Food        int    `json:"food"`
	General     *struct {
		Name  string `json:"name"`
		War   int    `json:"war"`
		Intel int    `json:"intel"`
		Pol   int    `json:"pol"`
		Chr   int    `json:"chr"`
		Bio   string `json:"bio"`
	} `json:"general"`
}

// DescribeSearch asks the model for a search outcome and falls back to the
// procedural search on any failure.
func (s *Service) DescribeSearch(ctx context.Context, q kingdoms.SearchQuery) kingdoms.SearchResult {
	if s.client.Enabled() {
		res, err := s.remoteSearch(ctx, q)
		if err == nil {
			return res
		}
		log.Warn().Err(err).Str("city", q.CityName).Msg("Remote search failed, using local outcome")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return kingdoms.LocalSearch(s.rng, s.rules, q)
}

func (s *Service) remoteSearch(ctx context.Context, q kingdoms.SearchQuery) (kingdoms.SearchResult, error) {
	prompt := s.printer.Sprintf(searchPrompt, q.GeneralName, q.CityName, strings.Join(q.Taken, ", "))
	text, err := s.client.Complete(ctx, searchSystem, prompt, 400)
	if err != nil {
		return kingdoms.SearchResult{}, err
	}
	return parseSearch(text, q)
}

// parseSearch decodes a model reply, clamping rewards to what a local
// search could yield.
func parseSearch(text string, q kingdoms.SearchQuery) (kingdoms.SearchResult, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var reply searchReply
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &reply); err != nil {
		return kingdoms.SearchResult{}, err
	}
	res := kingdoms.SearchResult{
		Description: reply.Description,
		Gold:        clamp(reply.Gold, 0, 300),
		Food:        clamp(reply.Food, 0, 500),
	}
	if res.Description == "" {
		res.Description = "General " + q.GeneralName + " searched " + q.CityName + " but found nothing of note amidst the bustling markets."
	}
	if g := reply.General; g != nil && g.Name != "" {
		for _, taken := range q.Taken {
			if strings.EqualFold(strings.TrimSpace(g.Name), taken) {
				return kingdoms.SearchResult{}, fmt.Errorf("general %q is already in play", g.Name)
			}
		}
		res.Gold, res.Food = 0, 0
		res.General = &kingdoms.General{
			Name: g.Name,
			Stats: kingdoms.Stats{
				War:   clamp(g.War, 1, 100),
				Intel: clamp(g.Intel, 1, 100),
				Pol:   clamp(g.Pol, 1, 100),
				Chr:   clamp(g.Chr, 1, 100),
			},
			Bio: g.Bio,
		}
	}
	return res, nil
}

// DescribeRumor returns a rumour for the turn.
func (s *Service) DescribeRumor(ctx context.Context, turn int) string {
	if s.client.Enabled() {
		text, err := s.client.Complete(ctx, "", s.printer.Sprintf(rumorPrompt, turn, 184+turn/12), 120)
		if text = strings.TrimSpace(text); err == nil && text != "" {
			return text
		}
		log.Warn().Err(err).Int("turn", turn).Msg("Remote rumor failed, using local rumor")
	}
	return LocalRumor(turn)
}

// LocalRumor picks a rumour from the fixed table by turn.
func LocalRumor(turn int) string {
	if turn < 0 {
		turn = -turn
	}
	return rumors[turn%len(rumors)]
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
