package intent

// RuleName tags the rule that identified the question's objects.
type RuleName string

const (
	RuleForEach   RuleName = "for-each"   // "for each account list their contacts"
	RuleWithTheir RuleName = "with-their" // "accounts with their contacts"
	RuleVerbWith  RuleName = "verb-with"  // "show accounts with contacts"
	RuleOf        RuleName = "of"         // "contacts of an account"
	RuleMentions  RuleName = "mentions"   // plain object mentions
	RuleFallback  RuleName = "fallback"   // nothing recognized
)

// Direction is the relationship direction suggested by the phrasing. It
// says which object the wording treats as the owner; the resolver checks it
// against the graph.
type Direction string

const (
	DirectionNone Direction = "none"
	ParentToChild Direction = "parent-to-child"
	ChildToParent Direction = "child-to-parent"
	Ambiguous     Direction = "ambiguous"
)

// ruleMatch is the typed result of one rule.
type ruleMatch struct {
	primary string
	related []string
	hint    Direction
}

// rule is one tagged pattern matcher. Rules are tried in slice order and
// the first match wins.
type rule struct {
	name  RuleName
	match func(s *scanState) (ruleMatch, bool)
}

var rules = []rule{
	{name: RuleForEach, match: matchForEach},
	{name: RuleWithTheir, match: matchWithTheir},
	{name: RuleVerbWith, match: matchVerbWith},
	{name: RuleOf, match: matchOf},
	{name: RuleMentions, match: matchMentions},
}

var (
	verbs = wordSet("show", "list", "get", "find", "display", "give", "fetch",
		"retrieve", "return", "pull", "select", "query", "see", "view")
	fillers = wordSet("me", "us", "all", "the", "every", "each", "my", "our",
		"any", "a", "an", "of", "please")
	possessives = wordSet("their", "its", "his", "her")
	linkers     = wordSet("with", "and", "plus", "including")
	relatedness = wordSet("related", "associated", "linked", "corresponding")
	determiners = wordSet("a", "an", "the", "all", "each", "every", "this", "that",
		"my", "our", "their", "its", "any", "those", "these", "some")
	eachWords = wordSet("each", "every")
)

// ofPhrases introduce the owner in "Y of X" phrasing.
var ofPhrases = [][]string{
	{"belonging", "to"}, {"related", "to"}, {"associated", "with"}, {"linked", "to"},
	{"attached", "to"}, {"of"}, {"for"}, {"under"}, {"from"},
}

func wordSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

// scanState is the token stream with its mentions, shared by the rules.
type scanState struct {
	toks     []Token
	mentions []Mention
}

func (s *scanState) word(i int) string {
	if i < 0 || i >= len(s.toks) || s.toks[i].Kind != Word {
		return ""
	}
	return s.toks[i].Text
}

// mentionAt returns the mention starting at token i.
func (s *scanState) mentionAt(i int) (Mention, bool) {
	for _, m := range s.mentions {
		if m.Start == i {
			return m, true
		}
	}
	return Mention{}, false
}

// skip advances past words in set.
func (s *scanState) skip(i int, set map[string]bool) int {
	for set[s.word(i)] {
		i++
	}
	return i
}

// phraseAt reports whether one of phrases starts at i and returns the index
// after it.
func (s *scanState) phraseAt(i int, phrases [][]string) (int, bool) {
	for _, p := range phrases {
		j := i
		ok := true
		for _, w := range p {
			if s.word(j) != w {
				ok = false
				break
			}
			j++
		}
		if ok {
			return j, true
		}
	}
	return i, false
}

// chain collects further mentions joined by "and"/"," after index i:
// "accounts with their contacts and their cases".
func (s *scanState) chain(i int, primary string, related []string) []string {
	for {
		j := i
		for s.word(j) == "and" || (j < len(s.toks) && s.toks[j].Kind == Punct && s.toks[j].Text == ",") {
			j++
		}
		if j == i {
			return related
		}
		j = s.skip(j, possessives)
		j = s.skip(j, relatedness)
		m, ok := s.mentionAt(j)
		if !ok {
			return related
		}
		related = appendObject(related, primary, m.Object)
		i = m.End
	}
}

func appendObject(list []string, primary, object string) []string {
	if object == primary {
		return list
	}
	for _, existing := range list {
		if existing == object {
			return list
		}
	}
	return append(list, object)
}

// matchForEach: "for each|every X (list|show) (their) Y" and
// "list Y for each X".
func matchForEach(s *scanState) (ruleMatch, bool) {
	for i := range s.toks {
		if s.word(i) != "for" || !eachWords[s.word(i+1)] {
			continue
		}
		owner, ok := s.mentionAt(i + 2)
		if !ok {
			continue
		}
		// "for each account, list their open cases": the child follows
		// within a few words.
		for j := owner.End; j < min(owner.End+5, len(s.toks)); j++ {
			child, ok := s.mentionAt(j)
			if !ok {
				continue
			}
			if child.Object == owner.Object {
				break
			}
			related := s.chain(child.End, owner.Object, []string{child.Object})
			return ruleMatch{primary: owner.Object, related: related, hint: ParentToChild}, true
		}
		for _, m := range s.mentions {
			if m.End <= i && m.Object != owner.Object {
				return ruleMatch{primary: owner.Object, related: []string{m.Object}, hint: ParentToChild}, true
			}
		}
	}
	return ruleMatch{}, false
}

// matchWithTheir: "X with|and|plus|including their|its|related Y".
func matchWithTheir(s *scanState) (ruleMatch, bool) {
	for _, owner := range s.mentions {
		j := owner.End
		switch {
		case linkers[s.word(j)]:
			j++
		case s.word(j) == "along" && s.word(j+1) == "with":
			j += 2
		default:
			continue
		}
		k := s.skip(j, wordSet("all", "the"))
		if !possessives[s.word(k)] && !relatedness[s.word(k)] {
			continue
		}
		k = s.skip(k, possessives)
		k = s.skip(k, relatedness)
		child, ok := s.mentionAt(k)
		if !ok || child.Object == owner.Object {
			continue
		}
		related := s.chain(child.End, owner.Object, []string{child.Object})
		return ruleMatch{primary: owner.Object, related: related, hint: ParentToChild}, true
	}
	return ruleMatch{}, false
}

// matchVerbWith: "show|list|get... X with|and Y" where both are objects.
func matchVerbWith(s *scanState) (ruleMatch, bool) {
	i := s.skip(0, wordSet("please", "can", "you", "could"))
	if !verbs[s.word(i)] {
		return ruleMatch{}, false
	}
	owner, ok := s.mentionAt(s.skip(i+1, fillers))
	if !ok {
		return ruleMatch{}, false
	}
	j := owner.End
	switch {
	case linkers[s.word(j)]:
		j++
	case s.word(j) == "along" && s.word(j+1) == "with":
		j += 2
	default:
		return ruleMatch{}, false
	}
	j = s.skip(j, wordSet("all", "the", "any"))
	j = s.skip(j, relatedness)
	child, ok := s.mentionAt(j)
	if !ok || child.Object == owner.Object {
		return ruleMatch{}, false
	}
	related := s.chain(child.End, owner.Object, []string{child.Object})
	return ruleMatch{primary: owner.Object, related: related, hint: ParentToChild}, true
}

// matchOf: "Y of|for|under|belonging to|related to X". The first object is
// the subject; the wording places X as its owner.
func matchOf(s *scanState) (ruleMatch, bool) {
	for _, subject := range s.mentions {
		j, ok := s.phraseAt(subject.End, ofPhrases)
		if !ok {
			continue
		}
		owner, ok := s.mentionAt(s.skip(j, determiners))
		if !ok || owner.Object == subject.Object {
			continue
		}
		return ruleMatch{primary: subject.Object, related: []string{owner.Object}, hint: ChildToParent}, true
	}
	return ruleMatch{}, false
}

// matchMentions: one or more plain mentions, in order.
func matchMentions(s *scanState) (ruleMatch, bool) {
	if len(s.mentions) == 0 {
		return ruleMatch{}, false
	}
	primary := s.mentions[0].Object
	var related []string
	for _, m := range s.mentions[1:] {
		related = appendObject(related, primary, m.Object)
	}
	if len(related) == 0 {
		return ruleMatch{primary: primary, hint: DirectionNone}, true
	}
	return ruleMatch{primary: primary, related: related, hint: Ambiguous}, true
}
