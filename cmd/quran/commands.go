package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/taiwoajasa245/quran-reader-api/internal/paginate"
	"github.com/taiwoajasa245/quran-reader-api/internal/quran"
	"github.com/taiwoajasa245/quran-reader-api/internal/reader"
	"github.com/taiwoajasa245/quran-reader-api/internal/readingstate"
)

const commandTimeout = 60 * time.Second

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), commandTimeout)
}

func chapterArg(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > quran.ChapterCount {
		return 0, fmt.Errorf("chapter must be a number between 1 and %d", quran.ChapterCount)
	}
	return n, nil
}

func positiveArg(name, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%s must be a positive number", name)
	}
	return n, nil
}

// translationFlag returns --translation, or the configured default when the
// flag was not given. An explicit empty value means no translation.
func (a *app) translationFlag(cmd *cobra.Command) string {
	if cmd.Flags().Changed("translation") {
		v, _ := cmd.Flags().GetString("translation")
		return strings.TrimSpace(v)
	}
	return a.cfg.DefaultTranslation
}

func newChaptersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chapters [term]",
		Short: "List chapters, optionally filtered by name or number",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()

			term := ""
			if len(args) == 1 {
				term = args[0]
			}
			chapters, err := a.service.Chapters(ctx, term)
			if err != nil {
				return err
			}
			printChapters(cmd.OutOrStdout(), chapters)
			return nil
		},
	}
}

func newReadCmd(a *app) *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "read <chapter>",
		Short: "Read a page of a chapter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := chapterArg(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()

			view := reader.NewView(a.service, a.store)
			defer view.Close()

			p, err := view.Load(ctx, n, page, a.translationFlag(cmd))
			if err != nil {
				return err
			}
			printChapterPage(cmd.OutOrStdout(), p)
			return nil
		},
	}
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page number")
	cmd.Flags().StringP("translation", "t", "", "translation edition, empty for none (default $DEFAULT_TRANSLATION)")
	return cmd
}

func newSectionCmd(a *app) *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "section <juz>",
		Short: "Read a page of one of the thirty sections",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := positiveArg("juz", args[0])
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()

			p, err := a.service.SectionPage(ctx, a.store, n, page, a.translationFlag(cmd))
			if err != nil {
				return err
			}
			printSectionPage(cmd.OutOrStdout(), p)
			return nil
		},
	}
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page number")
	cmd.Flags().StringP("translation", "t", "", "translation edition, empty for none (default $DEFAULT_TRANSLATION)")
	return cmd
}

func newSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search the English translation",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()

			res, err := a.service.Search(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			printSearch(cmd.OutOrStdout(), res)
			return nil
		},
	}
}

func newBookmarkCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookmark",
		Short: "Manage bookmarks",
	}

	add := &cobra.Command{
		Use:   "add <chapter> <verse>",
		Short: "Bookmark a verse",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			chapter, verse, err := verseArgs(args)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()

			b, err := a.lookupVerse(ctx, chapter, verse)
			if err != nil {
				return err
			}
			added, err := a.store.AddBookmark(ctx, b)
			if err != nil {
				return err
			}
			if added {
				fmt.Fprintf(cmd.OutOrStdout(), "Bookmarked %s %d:%d\n", b.ChapterName, chapter, verse)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%d:%d is already bookmarked\n", chapter, verse)
			}
			return nil
		},
	}

	rm := &cobra.Command{
		Use:   "rm <chapter> <verse>",
		Short: "Remove a bookmark",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			chapter, verse, err := verseArgs(args)
			if err != nil {
				return err
			}
			if err := a.store.RemoveBookmark(cmd.Context(), chapter, verse); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d:%d\n", chapter, verse)
			return nil
		},
	}

	ls := &cobra.Command{
		Use:   "ls",
		Short: "List bookmarks, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printBookmarks(cmd.OutOrStdout(), a.store.Bookmarks(cmd.Context()))
			return nil
		},
	}

	cmd.AddCommand(add, rm, ls)
	return cmd
}

func verseArgs(args []string) (chapter, verse int, err error) {
	if chapter, err = chapterArg(args[0]); err != nil {
		return 0, 0, err
	}
	if verse, err = positiveArg("verse", args[1]); err != nil {
		return 0, 0, err
	}
	return chapter, verse, nil
}

// lookupVerse fetches the chapter name and verse text a bookmark keeps.
func (a *app) lookupVerse(ctx context.Context, chapter, verse int) (readingstate.Bookmark, error) {
	c, err := a.client.GetChapter(ctx, chapter)
	if err != nil {
		return readingstate.Bookmark{}, err
	}
	list, err := a.client.GetChapterVerses(ctx, chapter, quran.OriginalEdition)
	if err != nil {
		return readingstate.Bookmark{}, err
	}
	for _, v := range list.Verses {
		if v.NumberInSurah == verse {
			return readingstate.Bookmark{
				ChapterNumber: chapter,
				VerseNumber:   verse,
				ChapterName:   c.EnglishName,
				VerseText:     v.Text,
			}, nil
		}
	}
	return readingstate.Bookmark{}, fmt.Errorf("%s has no verse %d", c.EnglishName, verse)
}

func newRecentCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "recent",
		Short: "List recently opened chapters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printRecent(cmd.OutOrStdout(), a.store.RecentChapters(cmd.Context()))
			return nil
		},
	}
}

func newResumeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resume",
		Short: "Open the page you last read",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			last, ok := a.service.Resume(cmd.Context(), a.store)
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "No reading session yet.")
				return nil
			}

			ctx, cancel := commandContext(cmd)
			defer cancel()

			view := reader.NewView(a.service, a.store)
			defer view.Close()

			p, err := view.Load(ctx, last.ChapterNumber, last.Page, a.translationFlag(cmd))
			if errors.Is(err, paginate.ErrPageOutOfRange) {
				p, err = view.Load(ctx, last.ChapterNumber, 1, a.translationFlag(cmd))
			}
			if err != nil {
				return err
			}
			printChapterPage(cmd.OutOrStdout(), p)
			return nil
		},
	}
	cmd.Flags().StringP("translation", "t", "", "translation edition, empty for none (default $DEFAULT_TRANSLATION)")
	return cmd
}

func newPageForCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "page-for <verse>",
		Short: "Show which page holds a verse",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := positiveArg("verse", args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Verse %d is on page %d\n", n, paginate.PageForVerse(n, paginate.PageSize))
			return nil
		},
	}
}
