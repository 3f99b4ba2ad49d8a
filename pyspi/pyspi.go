// Package pyspi registers the gpython module "_spi", exposing word parsing and invariant calculation to scripts.
package pyspi

import (
	"math/rand"
	"os"
	"strings"

	"github.com/fine-structures/spi.SDK/libspi/automorph"
	"github.com/fine-structures/spi.SDK/libspi/catalog"
	"github.com/fine-structures/spi.SDK/libspi/pipeline"
	"github.com/fine-structures/spi.SDK/libspi/stats"
	"github.com/fine-structures/spi.SDK/libspi/wordexpr"
	"github.com/fine-structures/spi.SDK/spi"
	"github.com/go-python/gpython/py"
)

var (
	LIB_VERSION = "v1.2024.1"
)

var (
	pyCatalogType   = py.NewType("Catalog", "spi.Catalog")
	pyWorkspaceType = py.NewType("Workspace", "collects active session resources and catalogs")
)

const (
	READ_ONLY = 0x01

	kWorkspaceAttr = "_Workspace"
)

// getWord reads a word given as an expression string or as a tuple or list of ints.
func getWord(obj py.Object) (spi.Word, error) {
	var items py.Tuple
	switch v := obj.(type) {
	case py.String:
		w, err := wordexpr.Parse(string(v))
		if err != nil {
			return nil, py.ExceptionNewf(py.ValueError, "%v", err)
		}
		return w, nil
	case py.Tuple:
		items = v
	case *py.List:
		items = v.Items
	default:
		return nil, py.ExceptionNewf(py.TypeError, "expected word str, tuple, or list (got %v)", obj.Type().Name)
	}

	w := make(spi.Word, len(items))
	for i, item := range items {
		k, err := py.GetInt(item)
		if err != nil {
			return nil, err
		}
		w[i] = int(k)
	}
	return w, nil
}

func getString(obj py.Object) (string, error) {
	str, ok := obj.(py.String)
	if !ok {
		return "", py.ExceptionNewf(py.TypeError, "expected str (got %v)", obj.Type().Name)
	}
	return string(str), nil
}

func wordTuple(w spi.Word) py.Tuple {
	tuple := make(py.Tuple, len(w))
	for i, k := range w {
		tuple[i] = py.Int(k)
	}
	return tuple
}

func getInvariant(nameObj, modObj py.Object) (spi.Invariant, error) {
	name := spi.DefaultConfig.Invariant
	if nameObj != nil {
		str, err := getString(nameObj)
		if err != nil {
			return spi.Invariant{}, err
		}
		name = str
	}
	modulus := 0
	if modObj != nil {
		m, err := py.GetInt(modObj)
		if err != nil {
			return spi.Invariant{}, err
		}
		modulus = int(m)
	}
	inv, err := spi.ParseInvariant(name, modulus)
	if err == nil {
		err = inv.Validate()
	}
	if err != nil {
		return spi.Invariant{}, py.ExceptionNewf(py.ValueError, "%v", err)
	}
	return inv, nil
}

func truthy(kwargs py.StringDict, key string) bool {
	return kwargs[key] == py.True
}

// calculate runs a calculation for (word, rank [, invariant [, modulus]]) and returns its Result as a dict.
func calculate(args py.Tuple, kwargs py.StringDict, cat spi.Catalog) (py.Object, error) {
	var wordObj, rankObj, invObj, modObj py.Object
	err := py.ParseTuple(args, "Oi|OO", &wordObj, &rankObj, &invObj, &modObj)
	if err != nil {
		return nil, err
	}

	word, err := getWord(wordObj)
	if err != nil {
		return nil, err
	}
	inv, err := getInvariant(invObj, modObj)
	if err != nil {
		return nil, err
	}

	opts := pipeline.Opts{
		Minimize:    truthy(kwargs, "minimize"),
		KeepSupport: truthy(kwargs, "support"),
		Catalog:     cat,
	}
	res, err := pipeline.Calculate(word, int(rankObj.(py.Int)), inv, opts)
	if err != nil {
		return nil, py.ExceptionNewf(py.ValueError, "%v", err)
	}
	return resultDict(res), nil
}

func resultDict(res *spi.Result) py.StringDict {
	dict := py.StringDict{
		"word":          wordTuple(res.Word),
		"rank":          py.Int(res.Rank),
		"invariant":     py.String(res.Invariant.String()),
		"value":         py.Float(res.Value),
		"infinite":      py.NewBool(res.Infinite),
		"cached":        py.NewBool(res.Cached),
		"num_subgraphs": py.Int(res.NumSubgraphs),
		"num_unfolded":  py.Int(res.NumUnfolded),
		"num_filtered":  py.Int(res.NumFiltered),
		"num_rows":      py.Int(res.NumRows),
		"fraction":      py.None,
		"minimal_word":  py.None,
	}
	if rat := res.Rat(); rat != nil {
		dict["fraction"] = py.String(rat.RatString())
	}
	if res.MinimalWord != nil {
		dict["minimal_word"] = wordTuple(res.MinimalWord)
	}
	if len(res.Support) > 0 {
		support := make(py.Tuple, len(res.Support))
		buf := strings.Builder{}
		for i, X := range res.Support {
			X.WriteAsString(&buf, spi.DefaultPrintOpts)
			support[i] = py.Tuple{py.String(buf.String()), py.Float(res.Weights[i])}
			buf.Reset()
		}
		dict["support"] = support
	}
	return dict
}

func py_Calculate(module py.Object, args py.Tuple, kwargs py.StringDict) (py.Object, error) {
	return calculate(args, kwargs, nil)
}

// Arg 1 (str): word expression
func py_ParseWord(module py.Object, args py.Tuple) (py.Object, error) {
	var exprObj py.Object
	err := py.ParseTuple(args, "O", &exprObj)
	if err != nil {
		return nil, err
	}
	if _, isStr := exprObj.(py.String); !isStr {
		return nil, py.ExceptionNewf(py.TypeError, "expected word expression str (got %v)", exprObj.Type().Name)
	}
	w, err := getWord(exprObj)
	if err != nil {
		return nil, err
	}
	return wordTuple(w), nil
}

func py_FormatWord(module py.Object, args py.Tuple) (py.Object, error) {
	var wordObj py.Object
	err := py.ParseTuple(args, "O", &wordObj)
	if err != nil {
		return nil, err
	}
	w, err := getWord(wordObj)
	if err != nil {
		return nil, err
	}
	return py.String(wordexpr.Format(w)), nil
}

// Arg 1: word
// Arg 2 (int): rank
func py_MinimalWord(module py.Object, args py.Tuple) (py.Object, error) {
	var wordObj, rankObj py.Object
	err := py.ParseTuple(args, "Oi", &wordObj, &rankObj)
	if err != nil {
		return nil, err
	}
	w, err := getWord(wordObj)
	if err != nil {
		return nil, err
	}
	return wordTuple(automorph.MinimalWord(w, int(rankObj.(py.Int)))), nil
}

// Arg 1 (int): length
// Arg 2 (int): rank
// Arg 3 (int): seed
func py_RandomWord(module py.Object, args py.Tuple) (py.Object, error) {
	var lenObj, rankObj, seedObj py.Object
	err := py.ParseTuple(args, "iii", &lenObj, &rankObj, &seedObj)
	if err != nil {
		return nil, err
	}
	length, rank := int(lenObj.(py.Int)), int(rankObj.(py.Int))
	if length < 1 || rank < 1 {
		return nil, py.ExceptionNewf(py.ValueError, "length and rank must be positive")
	}
	rng := rand.New(rand.NewSource(int64(seedObj.(py.Int))))
	return wordTuple(stats.RandomReducedWord(rng, length, rank)), nil
}

type Workspace struct {
	CatalogCtx spi.CatalogContext
}

func (ws *Workspace) Close() {
	ws.CatalogCtx.Close()
	<-ws.CatalogCtx.Done()
}

func (ws *Workspace) Type() *py.Type {
	return pyWorkspaceType
}

func py_GetWorkspace(module py.Object, args py.Tuple) (py.Object, error) {
	wsObj, _ := py.GetAttrString(module, kWorkspaceAttr)
	if wsObj == nil {
		ws := &Workspace{
			CatalogCtx: spi.NewCatalogContext(),
		}
		wsObj = ws
		py.SetAttrString(module, kWorkspaceAttr, wsObj)
	}
	return wsObj, nil
}

func py_Workspace_CatalogExists(self py.Object, args py.Tuple) (py.Object, error) {
	_ = self.(*Workspace)

	var pathObj py.Object
	err := py.ParseTuple(args, "O", &pathObj)
	if err != nil {
		return nil, err
	}
	pathname, err := getString(pathObj)
	if err != nil {
		return nil, err
	}
	_, err = os.Stat(pathname)
	if os.IsNotExist(err) {
		return py.False, nil
	}
	return py.True, nil
}

// Arg 1 (str): catalog pathname ("" for an in-memory catalog)
// Arg 2 (int): flags
func py_Workspace_OpenCatalog(self py.Object, args py.Tuple) (py.Object, error) {
	ws := self.(*Workspace)

	var pathObj, flagsObj py.Object
	err := py.ParseTuple(args, "O|i", &pathObj, &flagsObj)
	if err != nil {
		return nil, err
	}
	pathname, err := getString(pathObj)
	if err != nil {
		return nil, err
	}
	flags := py.Int(0)
	if flagsObj != nil {
		flags = flagsObj.(py.Int)
	}

	opts := spi.CatalogOpts{
		ReadOnly:   (flags & READ_ONLY) != 0,
		DbPathName: pathname,
	}

	cat, err := catalog.OpenCatalog(ws.CatalogCtx, opts)
	if err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}
	return py.Object(pyCatalog{cat}), nil
}

type pyCatalog struct {
	spi.Catalog
}

func (cat pyCatalog) Type() *py.Type {
	return pyCatalogType
}

func py_Catalog_Close(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)
	if cat.Catalog != nil {
		cat.Close()
	}
	return py.None, nil
}

func py_Catalog_NumResults(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)
	return py.Int(cat.NumResults()), nil
}

func py_Catalog_Calculate(self py.Object, args py.Tuple, kwargs py.StringDict) (py.Object, error) {
	cat := self.(pyCatalog)
	return calculate(args, kwargs, cat.Catalog)
}

// Arg 1 (str): invariant name
// Arg 2 (int): modulus
// Arg 3 (int): rank (0 for all)
func py_Catalog_Select(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)

	var invObj, modObj, rankObj py.Object
	err := py.ParseTuple(args, "|Oii", &invObj, &modObj, &rankObj)
	if err != nil {
		return nil, err
	}
	inv, err := getInvariant(invObj, modObj)
	if err != nil {
		return nil, err
	}
	sel := spi.ResultSelector{
		Invariant: inv,
	}
	if rankObj != nil {
		sel.Rank = int(rankObj.(py.Int))
	}

	var hits py.Tuple
	for res := range spi.SelectFromCatalog(cat.Catalog, sel) {
		hits = append(hits, resultDict(res))
	}
	return hits, nil
}

func init() {

	/////////////////////////////////
	// Catalog
	{
		pyCatalogType.Dict["Calculate"] = py.MustNewMethod("Calculate", py_Catalog_Calculate, 0, "calculates an invariant, reading and storing results in this Catalog")
		pyCatalogType.Dict["Select"] = py.MustNewMethod("Select", py_Catalog_Select, 0, "returns the stored results for an invariant")
		pyCatalogType.Dict["NumResults"] = py.MustNewMethod("NumResults", py_Catalog_NumResults, 0, "")
		pyCatalogType.Dict["Close"] = py.MustNewMethod("Close", py_Catalog_Close, 0, "")
	}

	/////////////////////////////////
	// Workspace
	{
		pyWorkspaceType.Dict["OpenCatalog"] = py.MustNewMethod("OpenCatalog", py_Workspace_OpenCatalog, 0, "")
		pyWorkspaceType.Dict["CatalogExists"] = py.MustNewMethod("CatalogExists", py_Workspace_CatalogExists, 0, "")
	}

	{
		methods := []*py.Method{
			py.MustNewMethod("calculate", py_Calculate, 0, "calculate(word, rank, invariant='no-origami', modulus=0, minimize=False, support=False) -> dict"),
			py.MustNewMethod("parse_word", py_ParseWord, 0, "parse_word(expr) -> tuple of generator indices"),
			py.MustNewMethod("format_word", py_FormatWord, 0, "format_word(word) -> str"),
			py.MustNewMethod("minimal_word", py_MinimalWord, 0, "minimal_word(word, rank) -> tuple"),
			py.MustNewMethod("random_word", py_RandomWord, 0, "random_word(length, rank, seed) -> cyclically reduced tuple"),
			py.MustNewMethod("GetWorkspace", py_GetWorkspace, 0, ""),
		}

		globals := py.StringDict{
			"LIB_VERSION": py.String(LIB_VERSION),
			"PY_VERSION":  py.String("v3.4.0"),
			"READ_ONLY":   py.Int(READ_ONLY),
			"MAX_EDGES":   py.Int(spi.MaxSubsetEdges),
		}

		py.RegisterModule(&py.ModuleImpl{
			Info: py.ModuleInfo{
				Name: "_spi",
				Doc:  "stable primitivity rank gpython module",
			},
			Methods: methods,
			Globals: globals,
			OnContextClosed: func(m *py.Module) {
				wsObj, _ := py.GetAttrString(m, kWorkspaceAttr)
				if wsObj != nil {
					wsObj.(*Workspace).Close()
				}
			},
		})
	}
}
